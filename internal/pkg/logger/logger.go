package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Entry
}

// LoggerContextKey is a plain string so the key also resolves through
// gin.Context.Value.
const LoggerContextKey = "logger"

var fallback = New(os.Stdout, logrus.InfoLevel)

func NewProductionLogger(level string) *Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	l := New(os.Stdout, lvl)
	l.Logger.SetReportCaller(true)
	if err != nil && level != "" {
		l.Warnf("Unknown log level %q, falling back to %s", level, lvl)
	}

	fallback = l
	return l
}

// New builds a JSON logger writing to out. Tests pass io.Discard and attach
// a hook.
func New(out io.Writer, level logrus.Level) *Logger {
	Log := logrus.New()
	Log.SetOutput(out)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(level)

	return &Logger{
		Entry: logrus.NewEntry(Log),
	}
}

func (logger *Logger) clone() *Logger {
	newLogger := *logger
	return &newLogger
}

// Helper to get logger from context
func LoggerFromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
			return logger
		}
	}

	return fallback.clone()
}

// WithLogger stores l in a plain context. Gin handlers use c.Set instead.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, l)
}

func (logger *Logger) WithX(key string, value interface{}) *Logger {
	l := logger.clone()
	l.Entry = logger.WithField(key, value)
	return l
}

func (logger *Logger) WithRequestID(requestID string) *Logger {
	return logger.WithX("request-id", requestID)
}
