package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey int

const (
	keyLogger ctxKey = iota
	keyTraceID
	keyUserID
)

// GinLoggerKey is the gin.Context key the request logger is stored under.
const GinLoggerKey = "logger"

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, keyLogger, l)
}

// WithTraceID stores the request trace id in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, keyTraceID, traceID)
}

// WithUserID stores the authenticated profile id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

// TraceID returns the trace id from ctx, or "".
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(keyTraceID).(string)
	return s
}

// UserID returns the authenticated profile id from ctx, or "".
func UserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(keyUserID).(string)
	return s
}

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise falls back to ctx-based enrichment of base.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(GinLoggerKey); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id/user_id from context values.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(keyLogger).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	var fields []interface{}
	if tid := TraceID(ctx); tid != "" {
		fields = append(fields, "trace_id", tid)
	}
	if uid := UserID(ctx); uid != "" {
		fields = append(fields, "user_id", uid)
	}
	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}
