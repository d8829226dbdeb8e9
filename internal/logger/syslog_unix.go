//go:build linux || darwin || freebsd || netbsd || openbsd

package logger

import "log/syslog"

type syslogSink struct {
	w *syslog.Writer
}

func newSyslogSink() (Sink, error) {
	w, err := syslog.New(syslog.LOG_INFO, "supermodel3")
	if err != nil {
		return nil, err
	}
	return &syslogSink{w: w}, nil
}

func (s *syslogSink) Write(line string) error { return s.w.Info(line) }
func (s *syslogSink) Close() error            { return s.w.Close() }
