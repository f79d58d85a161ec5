package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger *Logger
	globalMu     sync.Mutex
	once         sync.Once
)

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

type Component string
type LogLevel int

const (
	ComponentGeneral Component = "General"
	ComponentConfig  Component = "Config"
	ComponentAPI     Component = "API"
	ComponentCache   Component = "Cache"
	ComponentRepo    Component = "Repo"
	ComponentNotify  Component = "Notify"
	ComponentCLI     Component = "CLI"
	ComponentStorage Component = "Storage"
)

// AllComponents lists every component known to the application
var AllComponents = []Component{
	ComponentGeneral,
	ComponentConfig,
	ComponentAPI,
	ComponentCache,
	ComponentRepo,
	ComponentNotify,
	ComponentCLI,
	ComponentStorage,
}

// Logger filters log lines by level and component and writes them through zerolog
type Logger struct {
	mu                sync.RWMutex
	zl                zerolog.Logger
	file              *os.File
	level             LogLevel
	enabledComponents map[Component]bool
}

// InitGlobalLogger configures the process-wide logger once. When logDir is
// empty the logger writes to stderr only.
func InitGlobalLogger(logDir string, level LogLevel, components []Component) error {
	var err error
	once.Do(func() {
		var l *Logger
		if logDir == "" {
			l = NewLogger(os.Stderr, level, components)
		} else {
			l, err = NewFileLogger(logDir, level, components)
		}
		if err != nil {
			return
		}
		globalMu.Lock()
		globalLogger = l
		globalMu.Unlock()
	})
	return err
}

func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLogger(os.Stderr, LogLevelInfo, AllComponents)
	}
	return globalLogger
}

// NewLogger builds a console logger on w
func NewLogger(w io.Writer, level LogLevel, components []Component) *Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return newLogger(zerolog.New(console).With().Timestamp().Logger(), nil, level, components)
}

// NewFileLogger writes JSON lines to a timestamped file in logDir and mirrors them to stderr
func NewFileLogger(logDir string, level LogLevel, components []Component) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("gallery_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	multi := zerolog.MultiLevelWriter(file, console)
	zl := zerolog.New(multi).With().Timestamp().Logger()

	return newLogger(zl, file, level, components), nil
}

func newLogger(zl zerolog.Logger, file *os.File, level LogLevel, components []Component) *Logger {
	enabledComponents := make(map[Component]bool)
	for _, component := range components {
		enabledComponents[component] = true
	}
	return &Logger{
		zl:                zl,
		file:              file,
		level:             level,
		enabledComponents: enabledComponents,
	}
}

// ParseLogLevel maps a level name such as "debug" or "WARN" to a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "fatal":
		return LogLevelFatal, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) EnableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = true
}

func (l *Logger) DisableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = false
}

func (l *Logger) IsComponentEnabled(component Component) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabledComponents[component]
}

func (l *Logger) log(level LogLevel, component Component, format string, args ...interface{}) {
	l.mu.RLock()
	if level < l.level || !l.enabledComponents[component] {
		l.mu.RUnlock()
		return
	}
	zl := l.zl
	l.mu.RUnlock()

	var ev *zerolog.Event
	switch level {
	case LogLevelDebug:
		ev = zl.Debug()
	case LogLevelInfo:
		ev = zl.Info()
	case LogLevelWarn:
		ev = zl.Warn()
	case LogLevelError:
		ev = zl.Error()
	default:
		ev = zl.WithLevel(zerolog.FatalLevel)
	}
	ev.Str("component", string(component)).Msgf(format, args...)

	if level == LogLevelFatal {
		os.Exit(1)
	}
}

func (l *Logger) Debug(component Component, format string, args ...interface{}) {
	l.log(LogLevelDebug, component, format, args...)
}

func (l *Logger) Info(component Component, format string, args ...interface{}) {
	l.log(LogLevelInfo, component, format, args...)
}

func (l *Logger) Warn(component Component, format string, args ...interface{}) {
	l.log(LogLevelWarn, component, format, args...)
}

func (l *Logger) Error(component Component, format string, args ...interface{}) {
	l.log(LogLevelError, component, format, args...)
}

func (l *Logger) Fatal(component Component, format string, args ...interface{}) {
	l.log(LogLevelFatal, component, format, args...)
}
