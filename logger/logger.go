package logger

import (
	"io"
	"log"
)

// Logger is a thin wrapper around log.Logger with a per-component
// prefix and an optional hook for mirroring log lines elsewhere
// (e.g. an UI event stream).
//
// Output is discarded until SetOutput is called.
type Logger struct {
	onLog  func(format string, a ...any)
	logger *log.Logger
	prefix string
}

func NewLogger() *Logger {
	return &Logger{
		onLog:  func(format string, a ...any) {},
		logger: log.New(io.Discard, "", log.Default().Flags()),
	}
}

func (l *Logger) SetPrefix(prefix string) {
	l.prefix = prefix
}

func (l *Logger) GetPrefix() string {
	return l.prefix
}

func (l *Logger) Writer() io.Writer {
	return l.logger.Writer()
}

func (l *Logger) SetOutput(writer io.Writer) {
	l.logger.SetOutput(writer)
}

// SetOnLog sets a hook that receives every log line before it is written.
func (l *Logger) SetOnLog(hook func(format string, a ...any)) {
	l.onLog = hook
}

func (l *Logger) Log(format string, a ...any) {
	withPrefix := format
	if l.prefix != "" {
		withPrefix = l.prefix + ": " + format
	}
	if l.onLog != nil {
		l.onLog(withPrefix, a...)
	}
	l.logger.Printf(withPrefix+"\n", a...)
}
