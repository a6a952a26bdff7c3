package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents different logging levels.
// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for MLACS.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// FrameworkLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. It should be cheap to copy via With* methods.
type FrameworkLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]interface{}
	component string
	agentID   string
	messageID string
}

// LoggerConfig configures construction of a FrameworkLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	CustomAttrs map[string]interface{}
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, AddSource: true, CustomAttrs: map[string]interface{}{}}
}

// NewLogger builds a FrameworkLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *FrameworkLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &FrameworkLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]interface{}{}, component: cfg.Component}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *FrameworkLogger) clone() *FrameworkLogger {
	nl := *l
	nl.context = map[string]interface{}{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *FrameworkLogger) WithContext(key string, value interface{}) *FrameworkLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (orchestrator, engine, security, monitor).
func (l *FrameworkLogger) WithComponent(c string) *FrameworkLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithAgent attaches an agent identifier to subsequent entries.
func (l *FrameworkLogger) WithAgent(agentID string) *FrameworkLogger {
	nl := l.clone()
	nl.agentID = agentID
	return nl
}

// WithMessage attaches a message identifier to subsequent entries.
func (l *FrameworkLogger) WithMessage(messageID string) *FrameworkLogger {
	nl := l.clone()
	nl.messageID = messageID
	return nl
}

func (l *FrameworkLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+4)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.agentID != "" {
		attrs = append(attrs, slog.String("agent_id", l.agentID))
	}
	if l.messageID != "" {
		attrs = append(attrs, slog.String("message_id", l.messageID))
	}
	attrs = append(attrs, slog.Time("timestamp", time.Now()))
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *FrameworkLogger) log(level slog.Level, allowed bool, msg string, args ...interface{}) {
	if !allowed {
		return
	}
	attrs := l.buildAttrs()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Debug logs at debug level.
func (l *FrameworkLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *FrameworkLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *FrameworkLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *FrameworkLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogMessageRouted records delivery details for a routed message.
func (l *FrameworkLogger) LogMessageRouted(messageID, receiverID string, dur time.Duration, success bool, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("message_id", messageID), slog.String("receiver_id", receiverID), slog.Duration("duration", dur), slog.Bool("success", success))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Message routed"
	if !success {
		level = slog.LevelError
		msg = "Message routing failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogSecurityEvent records a security manager event with its severity.
func (l *FrameworkLogger) LogSecurityEvent(eventType, severity, details string) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.String("event_type", eventType), slog.String("severity", severity), slog.String("details", details))
	level := slog.LevelInfo
	if severity == "error" || severity == "critical" {
		level = slog.LevelWarn
	}
	l.logger.LogAttrs(context.Background(), level, "Security event", attrs...)
}

// LogHealthCheck records the outcome of a system health recomputation.
func (l *FrameworkLogger) LogHealthCheck(healthy bool, activeAgents, queueSize int) {
	attrs := l.buildAttrs()
	attrs = append(attrs, slog.Bool("healthy", healthy), slog.Int("active_agents", activeAgents), slog.Int("queue_size", queueSize))
	level := slog.LevelDebug
	if !healthy {
		level = slog.LevelWarn
	}
	l.logger.LogAttrs(context.Background(), level, "Health check completed", attrs...)
}

// StartTimer returns a closure that logs the elapsed duration when invoked.
func (l *FrameworkLogger) StartTimer(op string) func() {
	start := time.Now()
	return func() { l.Info("operation completed operation=%s duration=%s", op, time.Since(start)) }
}

// ForComponent scopes the logger to a named component when the underlying
// implementation supports contextual cloning; other Logger implementations
// are returned unchanged.
func ForComponent(l Logger, component string) Logger {
	if fl, ok := l.(*FrameworkLogger); ok {
		return fl.WithComponent(component)
	}
	return l
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger creates a new FrameworkLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *FrameworkLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}
