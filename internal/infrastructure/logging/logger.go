package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is the structured logger used across the launcher. Fields are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Level orders log severities
type Level int

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
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel accepts debug, info, warn/warning and error in any case
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// DefaultLogger writes one JSON object per line
type DefaultLogger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	component string
	now       func() time.Time
}

// Option configures a DefaultLogger
type Option func(*DefaultLogger)

// WithWriter sends output to w instead of stderr
func WithWriter(w io.Writer) Option {
	return func(l *DefaultLogger) {
		if w != nil {
			l.out = w
		}
	}
}

// WithLevel drops entries below level
func WithLevel(level Level) Option {
	return func(l *DefaultLogger) { l.level = level }
}

// WithComponent tags every entry with a component name
func WithComponent(name string) Option {
	return func(l *DefaultLogger) { l.component = name }
}

// NewDefaultLogger creates a logger writing INFO and above to stderr
func NewDefaultLogger(opts ...Option) Logger {
	l := &DefaultLogger{
		out:   os.Stderr,
		level: LevelInfo,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// fieldsToMap converts key1, value1, key2, value2, ... to a map. Non-string
// keys and a trailing key without value get positional names.
func fieldsToMap(fields []interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	result := make(map[string]interface{}, len(fields)/2+1)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			result[fmt.Sprintf("field_%d", i/2)] = fields[i]
			break
		}
		if key, ok := fields[i].(string); ok {
			result[key] = normalizeValue(fields[i+1])
			continue
		}
		result[fmt.Sprintf("field_%d", i/2)] = fields[i]
		result[fmt.Sprintf("field_%d_value", i/2)] = normalizeValue(fields[i+1])
	}

	return result
}

// normalizeValue keeps error text from being marshalled as {}
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case error:
		if val == nil {
			return nil
		}
		return val.Error()
	case time.Duration:
		return val.String()
	default:
		return v
	}
}

func (l *DefaultLogger) log(level Level, msg string, fields []interface{}) {
	if level < l.level {
		return
	}

	entry := logEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
		Fields:    fieldsToMap(fields),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		entry.Fields = map[string]interface{}{
			"original_fields": fmt.Sprintf("%v", fields),
			"marshal_error":   err.Error(),
		}
		if line, err = json.Marshal(entry); err != nil {
			line = []byte(fmt.Sprintf("[%s] %s %v", level, msg, fields))
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(line, '\n'))
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.log(LevelDebug, msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.log(LevelInfo, msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.log(LevelWarn, msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.log(LevelError, msg, fields)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// CodedError is implemented by errors that carry a classification. It
// mirrors the accessors of the infrastructure errors package so this
// package does not have to import it.
type CodedError interface {
	Error() string
	GetCode() string
	IsRetryable() bool
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogError logs err at ERROR level with its classification and any extra context
func LogError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil || err == nil {
		return
	}

	fields := []interface{}{"operation", operation}

	if coded, ok := err.(CodedError); ok {
		fields = append(fields,
			"error_code", coded.GetCode(),
			"retryable", coded.IsRetryable(),
			"timestamp", coded.GetTimestamp(),
		)
		for k, v := range coded.GetContext() {
			fields = append(fields, k, v)
		}
	} else {
		fields = append(fields, "error_type", fmt.Sprintf("%T", err))
	}

	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Error(fmt.Sprintf("%s failed: %s", operation, err.Error()), fields...)
}

// LogOperation logs a completed operation and its duration at DEBUG level
func LogOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		return
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}
	for k, v := range context {
		fields = append(fields, k, v)
	}

	logger.Debug(fmt.Sprintf("%s completed", operation), fields...)
}
