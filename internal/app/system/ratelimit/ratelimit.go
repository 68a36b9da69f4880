// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit protects the credential endpoints from brute-force
// attempts. Limits are tracked in memory per process; a horizontally
// scaled deployment multiplies the effective limit by the instance count,
// which is acceptable for this purpose.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter provides rate limiting using a sliding window algorithm.
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	cleanup  time.Duration // how often to clean old entries
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2,
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from the given key should be allowed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true
	}

	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the rate limit for a specific key. Called after a
// successful login so a legitimate user is not penalized for earlier
// typos.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// cleanupLoop periodically removes expired entries to prevent memory
// growth.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP from an HTTP request. It checks
// X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// CredentialLimiter rate-limits registration and login attempts. It
// tracks both IP-based and email-based windows, so neither a single IP
// hammering many accounts nor many IPs targeting one account slips
// through.
type CredentialLimiter struct {
	ipLimiter    *Limiter
	emailLimiter *Limiter
}

// NewCredentialLimiter creates a limiter with the defaults used for the
// auth endpoints: 10 attempts per IP per minute, 5 attempts per email
// per 5 minutes.
func NewCredentialLimiter() *CredentialLimiter {
	return &CredentialLimiter{
		ipLimiter:    New(10, time.Minute),
		emailLimiter: New(5, 5*time.Minute),
	}
}

// Check verifies whether an attempt should be allowed. Returns
// (allowed, reason) where reason is a user-facing message when blocked.
func (cl *CredentialLimiter) Check(r *http.Request, email string) (bool, string) {
	if !cl.ipLimiter.Allow(ClientIP(r)) {
		return false, "too many attempts, please wait a minute before trying again"
	}
	if email != "" {
		emailKey := strings.ToLower(strings.TrimSpace(email))
		if !cl.emailLimiter.Allow(emailKey) {
			return false, "too many attempts for this account, please wait a few minutes"
		}
	}
	return true, ""
}

// ResetEmail clears the rate limit for an email after a successful login.
func (cl *CredentialLimiter) ResetEmail(email string) {
	if email != "" {
		cl.emailLimiter.Reset(strings.ToLower(strings.TrimSpace(email)))
	}
}
