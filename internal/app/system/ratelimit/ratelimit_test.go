package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/teamnotes/internal/app/system/ratelimit"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l := ratelimit.New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over the limit should be blocked")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("a different key should have its own window")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)

	l.Allow("alice@example.com")
	if l.Allow("alice@example.com") {
		t.Fatal("second attempt should be blocked")
	}

	l.Reset("alice@example.com")
	if !l.Allow("alice@example.com") {
		t.Error("attempt after Reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.10:54321",
			want:       "192.168.1.10",
		},
		{
			name:       "x-forwarded-for wins",
			remoteAddr: "192.168.1.10:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			want:       "203.0.113.5",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "192.168.1.10:54321",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCredentialLimiter_BlocksEmailAfterLimit(t *testing.T) {
	cl := ratelimit.NewCredentialLimiter()

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest("POST", "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0." + string(rune('1'+i)) + ":1000"
		allowed, _ := cl.Check(r, "Bob@Example.com")
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// Sixth attempt from yet another IP still trips the email window.
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.9:1000"
	allowed, reason := cl.Check(r, "bob@example.com")
	if allowed {
		t.Error("sixth attempt for same email should be blocked")
	}
	if reason == "" {
		t.Error("blocked attempt should carry a reason")
	}

	// A successful login clears the email window.
	cl.ResetEmail("BOB@example.com")
	allowed, _ = cl.Check(r, "bob@example.com")
	if !allowed {
		t.Error("attempt after ResetEmail should be allowed")
	}
}
