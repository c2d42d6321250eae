package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	svc, err := NewTokenService("access-secret", "refresh-secret", opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenServiceRejectsBadSecrets(t *testing.T) {
	cases := []struct {
		name    string
		access  string
		refresh string
	}{
		{"empty access", "", "refresh"},
		{"empty refresh", "access", ""},
		{"equal secrets", "same", "same"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTokenService(tc.access, tc.refresh); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	pair, err := svc.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}

	uid, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("unexpected user id %q", uid)
	}
	uid, err = svc.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("unexpected user id %q", uid)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	svc := newTestTokenService(t)
	pair, err := svc.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredTokenReported(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, WithClock(func() time.Time { return now }))
	pair, err := svc.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	now = now.Add(16 * time.Minute)
	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	// Refresh token lives longer and is still valid.
	if _, err := svc.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("refresh should still verify: %v", err)
	}

	now = now.Add(8 * 24 * time.Hour)
	if _, err := svc.VerifyRefresh(pair.RefreshToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService("other-access", "other-refresh")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	pair, err := svc.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := other.VerifyAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestTokenService(t)
	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		if _, err := svc.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
