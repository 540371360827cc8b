package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("10.0.0.1"))
	}
	require.False(t, rl.Allow("10.0.0.1"))

	// Other clients are tracked independently.
	require.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterPrunesExpiredRequests(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	old := time.Now().Add(-2 * time.Minute)
	rl.requests["10.0.0.3"] = []time.Time{old, old}

	require.True(t, rl.Allow("10.0.0.3"))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	require.Len(t, rl.requests["10.0.0.3"], 1)
}

func TestRateLimiterCleanupDropsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	stale := time.Now().Add(-5 * time.Minute)
	rl.requests["10.0.0.4"] = []time.Time{stale}
	rl.requests["10.0.0.5"] = []time.Time{time.Now()}

	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	require.NotContains(t, rl.requests, "10.0.0.4")
	require.Contains(t, rl.requests, "10.0.0.5")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for takes the first hop",
			forwarded:  "203.0.113.7, 10.0.0.1",
			realIP:     "198.51.100.2",
			remoteAddr: "10.0.0.1:4321",
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip when no forwarded header",
			realIP:     " 198.51.100.2 ",
			remoteAddr: "10.0.0.1:4321",
			want:       "198.51.100.2",
		},
		{
			name:       "remote addr strips the port",
			remoteAddr: "192.0.2.10:56789",
			want:       "192.0.2.10",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/review/query", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}

			require.Equal(t, tc.want, clientIP(r))
		})
	}
}

func TestRateLimitReview(t *testing.T) {
	limit := RateLimitReview()

	calls := 0
	handler := limit(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/review/query", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 10, calls)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/review/query", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"detail":"Too many review requests. Please try again later."}`, rec.Body.String())
	require.Equal(t, 10, calls)

	// A different client is not affected by the exhausted bucket.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/review/query", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.99")
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 11, calls)
}
