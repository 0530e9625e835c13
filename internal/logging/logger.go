package logging

import (
	"context"
	"log"
)

type ctxKey struct{}

// WithRequestID attaches a request id for loggers created from ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id carried by ctx, or "unknown"
func RequestID(ctx context.Context) string {
	if ctx != nil {
		if rid, ok := ctx.Value(ctxKey{}).(string); ok && rid != "" {
			return rid
		}
	}
	return "unknown"
}

// Logger provides key=value logging scoped to one request
type Logger struct {
	requestID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	return &Logger{requestID: RequestID(ctx)}
}

// Error logs an error with context
func (l *Logger) Error(operation string, err error) {
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

// Infof logs a formatted info message with context
func (l *Logger) Infof(operation string, format string, args ...interface{}) {
	log.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

// Warnf logs a formatted warning with context
func (l *Logger) Warnf(operation string, format string, args ...interface{}) {
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
