package rtscam

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

// DefaultPrefix tags DefaultLogger output when no prefix is given.
const DefaultPrefix = "rtscam"

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) format(level string, format string, args ...any) string {
	return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.format("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.format("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.format("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.format("ERROR", format, args...))
}

// LoggingModule installs a DefaultLogger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewDefaultLogger(m.Prefix, m.Debug))
}

// prefixedLogger names the subsystem a message comes from, as in
// "rts camera: reloaded camera.yaml".
type prefixedLogger struct {
	Logger
	name string
}

// WithPrefix returns a Logger that puts name in front of every message.
// Prefixes nest: WithPrefix(WithPrefix(l, "a"), "b") logs "a: b: msg".
func WithPrefix(l Logger, name string) Logger {
	if l == nil {
		l = NewNopLogger()
	}
	return prefixedLogger{Logger: l, name: name}
}

func (l prefixedLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.Logger.Debugf("%s: %s", l.name, fmt.Sprintf(format, args...))
}

func (l prefixedLogger) Infof(format string, args ...any) {
	l.Logger.Infof("%s: %s", l.name, fmt.Sprintf(format, args...))
}

func (l prefixedLogger) Warnf(format string, args ...any) {
	l.Logger.Warnf("%s: %s", l.name, fmt.Sprintf(format, args...))
}

func (l prefixedLogger) Errorf(format string, args ...any) {
	l.Logger.Errorf("%s: %s", l.name, fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource, or a no-op logger. Never nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
