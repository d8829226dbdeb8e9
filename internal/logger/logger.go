// Package logger is the emulator's logging facade: pluggable sinks
// (stderr, file, syslog) behind level filtering, following the
// slog.Handler-wrapper shape used across the retrieval pack (rcornwell-S370's
// util/logger) rather than a single hardwired formatted-string writer.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Level mirrors the CLI's --log-level values.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelAll
)

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	case "all":
		return LevelAll, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug, LevelAll:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}

// Sink receives already-formatted log lines. Grounded on Src/Logger.h's
// split between "what to log" (Logger) and "where it goes" (the concrete
// sink), so new output destinations don't touch level-filtering logic.
type Sink interface {
	Write(line string) error
	Close() error
}

type stderrSink struct {
	color bool
}

func newStderrSink() *stderrSink {
	return &stderrSink{color: term.IsTerminal(int(os.Stderr.Fd()))}
}

func (s *stderrSink) Write(line string) error {
	_, err := os.Stderr.WriteString(line)
	return err
}
func (s *stderrSink) Close() error { return nil }

type fileSink struct {
	f *os.File
}

func newFileSink(path string) (*fileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &fileSink{f: f}, nil
}

func (s *fileSink) Write(line string) error {
	_, err := s.f.WriteString(line)
	return err
}
func (s *fileSink) Close() error { return s.f.Close() }

// NewSink builds a Sink from a --log-output token: "stdout", "stderr",
// "syslog", or a file path.
func NewSink(token string) (Sink, error) {
	switch token {
	case "stderr", "":
		return newStderrSink(), nil
	case "stdout":
		return &fileSink{f: os.Stdout}, nil
	case "syslog":
		return newSyslogSink()
	default:
		return newFileSink(token)
	}
}

// dedupHandler applies level filtering and fans formatted records out to
// every configured sink.
type dedupHandler struct {
	mu    sync.Mutex
	min   slog.Level
	sinks []Sink
}

func (h *dedupHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.min }

func (h *dedupHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006/01/02 15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(r.Level.String())
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
		return true
	})
	sb.WriteByte('\n')
	line := sb.String()

	h.mu.Lock()
	defer h.mu.Unlock()
	var firstErr error
	for _, s := range h.sinks {
		if err := s.Write(line); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *dedupHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *dedupHandler) WithGroup(name string) slog.Handler       { return h }

// Logger is the handle the machine object owns and passes explicitly
// (spec.md §9: "no hidden globals"); subsystems such as the buses reach
// it only through callbacks the machine installs, not a process-wide
// singleton.
type Logger struct {
	*slog.Logger
	handler *dedupHandler

	faultMu    sync.Mutex
	faultSeen  map[uint32]bool
	faultCount int
	faultLimit int // spec.md §7: >1000 faults/frame downgrades to suppressed
}

// New builds a Logger filtering at min and writing to sinks.
func New(min Level, sinks ...Sink) *Logger {
	h := &dedupHandler{min: min.slogLevel(), sinks: sinks}
	return &Logger{
		Logger:     slog.New(h),
		handler:    h,
		faultSeen:  make(map[uint32]bool),
		faultLimit: 1000,
	}
}

// Close closes every sink.
func (l *Logger) Close() error {
	var firstErr error
	for _, s := range l.handler.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ResetFrame clears the per-frame fault-storm counter (called by the
// scheduler at frame boundaries).
func (l *Logger) ResetFrame() {
	l.faultMu.Lock()
	l.faultCount = 0
	l.faultMu.Unlock()
}

// GuestFault logs a runtime guest fault (unmapped access, undefined opcode,
// bad display-list pointer) at most once per distinct PC, and suppresses
// logging entirely once more than faultLimit faults occur in one frame,
// per spec.md §7.
func (l *Logger) GuestFault(pc uint32, msg string, args ...any) {
	l.faultMu.Lock()
	defer l.faultMu.Unlock()
	l.faultCount++
	if l.faultCount > l.faultLimit {
		return
	}
	if l.faultSeen[pc] {
		return
	}
	l.faultSeen[pc] = true
	l.Logger.Debug(msg, args...)
}
