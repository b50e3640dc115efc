package observability

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LogLevel represents log severity
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
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
		return "UNKNOWN"
	}
}

// ParseLevel maps a LOG_LEVEL value onto a LogLevel. Unknown values mean info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled key=value logger that can pick up trace ids from a context
type Logger struct {
	mu          sync.RWMutex
	out         *log.Logger
	minLevel    LogLevel
	fields      map[string]interface{}
	serviceName string
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// NewLogger creates a logger writing to stdout
func NewLogger(serviceName string, minLevel LogLevel) *Logger {
	return &Logger{
		out:         log.New(os.Stdout, "", 0),
		minLevel:    minLevel,
		fields:      make(map[string]interface{}),
		serviceName: serviceName,
	}
}

// GetLogger returns the process-wide logger, configured from SERVICE_NAME and LOG_LEVEL
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		serviceName := os.Getenv("SERVICE_NAME")
		if serviceName == "" {
			serviceName = "photolist"
		}
		defaultLogger = NewLogger(serviceName, ParseLevel(os.Getenv("LOG_LEVEL")))
	})
	return defaultLogger
}

// SetOutput redirects log lines, mostly for tests
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = log.New(w, "", 0)
}

// SetLevel changes the minimum level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// WithField returns a child logger carrying one more field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger carrying the given fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &Logger{
		out:         l.out,
		minLevel:    l.minLevel,
		fields:      merged,
		serviceName: l.serviceName,
	}
}

// WithContext adds trace_id and span_id when ctx carries a valid span
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return l
	}
	return l.WithFields(map[string]interface{}{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	})
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) log(level LogLevel, msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.minLevel {
		return
	}

	_, file, line, _ := runtime.Caller(2)
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s %s:%d %s",
		time.Now().Format("2006/01/02 15:04:05"),
		level.String(),
		l.serviceName,
		file,
		line,
		msg,
	)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}

	l.out.Println(b.String())
}

// Package-level helpers delegate to the default logger

func Debugf(format string, args ...interface{}) { GetLogger().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { GetLogger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { GetLogger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { GetLogger().Errorf(format, args...) }

// WithField returns a default logger child with the field
func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

// WithFields returns a default logger child with the fields
func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

// WithContext returns a default logger child with trace context
func WithContext(ctx context.Context) *Logger {
	return GetLogger().WithContext(ctx)
}

// Span attribute helpers

func ListID(id string) attribute.KeyValue {
	return attribute.String("photolist.id", id)
}

func CollectionID(id int64) attribute.KeyValue {
	return attribute.Int64("photolist.collection_id", id)
}

func PhotoCount(n int) attribute.KeyValue {
	return attribute.Int("photolist.photo_count", n)
}

func Operation(op string) attribute.KeyValue {
	return attribute.String("operation", op)
}
