//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package logger

import "fmt"

func newSyslogSink() (Sink, error) {
	return nil, fmt.Errorf("syslog output is not supported on this platform")
}
