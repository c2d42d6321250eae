package audit

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit entry enriched with request and actor context.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	zf := make([]zap.Field, 0, len(fields)+4)
	zf = append(zf, zap.String("type", "audit"))
	if rid := RequestIDFromContext(ctx); rid != "" {
		zf = append(zf, zap.String("request_id", rid))
	}
	if p, ok := auth.PrincipalFromContext(ctx); ok {
		zf = append(zf, zap.String("user_id", p.UserID))
		if p.TenantID != "" {
			zf = append(zf, zap.String("tenant_id", p.TenantID))
		}
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	obs.Logger().Info(event, zf...)
	return nil
}
