package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/config"
	"clubsite/pkg/logger"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, Requests: 1, Window: "1h", Burst: 2}, false)
	t.Cleanup(rl.Close)
	h := rl.Middleware(http.HandlerFunc(okHandler))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false, Requests: 1, Window: "1h", Burst: 1}, false)
	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
}

func TestRateLimiterIgnoresForwardedForByDefault(t *testing.T) {
	send := func(rl *RateLimiter, spoofed string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.9:4444"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		rl.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
		return rec.Code
	}

	direct := NewRateLimiter(config.RateLimitConfig{Enabled: true, Requests: 1, Window: "1h", Burst: 1}, false)
	t.Cleanup(direct.Close)
	assert.Equal(t, http.StatusOK, send(direct, "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send(direct, "2.2.2.2"))

	proxied := NewRateLimiter(config.RateLimitConfig{Enabled: true, Requests: 1, Window: "1h", Burst: 1}, true)
	t.Cleanup(proxied.Close)
	assert.Equal(t, http.StatusOK, send(proxied, "1.1.1.1"))
	assert.Equal(t, http.StatusOK, send(proxied, "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send(proxied, "1.1.1.1"))
}

func TestLoggerMiddleware(t *testing.T) {
	var out bytes.Buffer
	logger.SetOutput(&out, io.Discard)
	t.Cleanup(func() { logger.SetOutput(nil, nil) })

	h := LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))

	line := out.String()
	assert.Contains(t, line, "/admin")
	assert.Contains(t, line, "303")
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blog/{id}", okHandler)
	h := m.Middleware(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/2", nil))
	m.RecordCreated("club")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `clubsite_http_requests_total{code="200",method="GET",route="GET /blog/{id}"} 2`), body)
	assert.Contains(t, body, `clubsite_records_total{kind="club",op="create"} 1`)
}
