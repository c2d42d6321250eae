package audit

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/obs"
)

func TestLogEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := obs.SetLogger(zap.New(core))
	defer obs.SetLogger(prev)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = auth.ContextWithPrincipal(ctx, auth.Principal{UserID: "user-42", TenantID: "tenant-1"})

	if err := LogEvent(ctx, "rbac.role.create", map[string]any{"name": "HR_ADMIN"}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "rbac.role.create" {
		t.Fatalf("unexpected event: %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["type"] != "audit" {
		t.Fatalf("unexpected type: %v", fields["type"])
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", fields["request_id"])
	}
	if fields["user_id"] != "user-42" {
		t.Fatalf("unexpected user id: %v", fields["user_id"])
	}
	if fields["tenant_id"] != "tenant-1" {
		t.Fatalf("unexpected tenant id: %v", fields["tenant_id"])
	}
	if fields["name"] != "HR_ADMIN" {
		t.Fatalf("unexpected field: %v", fields["name"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
