package particlefield

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// StreamLogger drops entries below its level. Warnings and errors go to the
// error stream, everything else to the output stream.
type StreamLogger struct {
	prefix string
	level  atomic.Int32
	out    *log.Logger
	errOut *log.Logger
}

func NewStreamLogger(prefix string, level Level, out, errOut io.Writer) *StreamLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &StreamLogger{
		prefix: prefix,
		out:    log.New(out, "", flags),
		errOut: log.New(errOut, "", flags),
	}
	l.level.Store(int32(level))
	return l
}

func (l *StreamLogger) Level() Level {
	return Level(l.level.Load())
}

func (l *StreamLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *StreamLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *StreamLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *StreamLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *StreamLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *StreamLogger) logf(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	dst := l.out
	if level >= LevelWarn {
		dst = l.errOut
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		dst.Printf("[%s] %s: %s", l.prefix, level, msg)
		return
	}
	dst.Printf("%s: %s", level, msg)
}

// LoggingModule sets the App's logger. Without an explicit Logger it builds a
// StreamLogger over Out and ErrOut, defaulting to stdout and stderr.
type LoggingModule struct {
	Prefix string
	Level  Level
	Out    io.Writer
	ErrOut io.Writer
	Logger Logger
}

func (m LoggingModule) Install(app *App, cmd *Commands) error {
	app.logger = m.logger()
	return nil
}

func (m LoggingModule) logger() Logger {
	if m.Logger != nil {
		return m.Logger
	}
	out, errOut := m.Out, m.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return NewStreamLogger(m.Prefix, m.Level, out, errOut)
}

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Logger returns the installed logger, or a no-op one before LoggingModule ran.
func (app *App) Logger() Logger {
	if app == nil || app.logger == nil {
		return NewNopLogger()
	}
	return app.logger
}
