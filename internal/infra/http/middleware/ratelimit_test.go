package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterRefillsAcrossWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, false)
	defer rl.Stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	// one token comes back every window/limit
	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)
	defer rl.Stop()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(90 * time.Second)
	rl.Allow("recent")
	now = now.Add(45 * time.Second)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "old")
	assert.Contains(t, rl.visitors, "recent")
}

func TestRateLimiterZeroLimitAllowsAll(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute, false)
	defer rl.Stop()

	for range 100 {
		assert.True(t, rl.Allow("1.2.3.4"))
	}
}

func serveWrites(rl *RateLimiter) func(method, remote, forwarded string) int {
	h := rl.LimitWrites(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return func(method, remote, forwarded string) int {
		req := httptest.NewRequest(method, "/leads", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
}

func TestLimitWritesLeavesReadsAlone(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)
	defer rl.Stop()
	do := serveWrites(rl)

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "10.0.0.7:5000", ""))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.7:5000", ""))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "10.0.0.7:5000", ""))
}

func TestLimitWritesIgnoresForwardedHeadersByDefault(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, false)
	defer rl.Stop()
	do := serveWrites(rl)

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "10.0.0.7:5000", "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.7:5000", "2.2.2.2"))
}

func TestLimitWritesBehindTrustedProxy(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, true)
	defer rl.Stop()
	do := serveWrites(rl)

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "10.0.0.1:443", "9.9.9.9, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "10.0.0.1:443", "9.9.9.9"))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "10.0.0.1:443", "8.8.8.8"))
}
