package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glzzd/orion/internal/audit"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(base, 1, 1)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d", rec.Code)
	}

	// A different client gets its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client: status = %d", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = audit.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen == "" {
		t.Fatal("expected generated request id in context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header = %q, context = %q", got, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-supplied")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "req-supplied" {
		t.Fatalf("supplied id not honored: %q", seen)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc123", "abc123", false},
		{"bearer abc123", "abc123", false},
		{"  Bearer   abc123  ", "abc123", false},
		{"", "", true},
		{"Basic abc123", "", true},
		{"Bearer ", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Errorf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("header %q: got %q err %v", tc.header, got, err)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	if ip := clientIP(req); ip != "192.0.2.7" {
		t.Fatalf("ip = %q", ip)
	}
	req.Header.Set("X-Forwarded-For", "198.51.100.3, 192.0.2.7")
	if ip := clientIP(req); ip != "198.51.100.3" {
		t.Fatalf("forwarded ip = %q", ip)
	}
}
