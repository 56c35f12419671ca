package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/application"
	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/detection"
	"github.com/phishguard/phishguard/internal/domain/ml"
	"github.com/phishguard/phishguard/internal/domain/scoring"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
)

type neutralSSL struct{}

func (neutralSSL) CheckSSL(ctx context.Context, host string) domain.SSLInfo {
	return domain.SSLInfo{}
}

type neutralAge struct{}

func (neutralAge) DomainAge(ctx context.Context, host string) domain.DomainAgeInfo {
	return domain.DomainAgeInfo{Score: 0.5}
}

var (
	testSrvOnce sync.Once
	testSrv     *Server
)

func testServer(t *testing.T) *Server {
	t.Helper()
	testSrvOnce.Do(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		urlClf, textClf := ml.BuildClassifiers(ml.BootstrapConfig{}, logger)

		svc := application.NewAnalysisService(
			logger,
			detection.NewBank(),
			urlanalysis.NewAnalyzer(),
			urlClf,
			textClf,
			scoring.NewEngine(scoring.DefaultConfig()),
			neutralSSL{},
			neutralAge{},
			nil,
		)

		cfg := &Config{
			HTTPAddr:        ":0",
			AllowedOrigins:  []string{"*"},
			RateLimitPerMin: 1000,
			RateLimitWindow: time.Minute,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
		}
		testSrv = New(svc, cfg, logger)
	})
	return testSrv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyze(t *testing.T) {
	srv := testServer(t)

	t.Run("phishing sms", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/analyze", analyzeRequest{
			Content:     "Dear customer, your MPESA PIN must be verified immediately, click here to confirm http://mpesa-secure.xyz/verify",
			ContentType: "sms",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result domain.AnalysisResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, domain.ClassPhishing, result.Classification)
		assert.NotEmpty(t, result.Indicators)
	})

	t.Run("invalid content type", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/analyze", analyzeRequest{Content: "x", ContentType: "fax"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty content", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/analyze", analyzeRequest{Content: "   ", ContentType: "email"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("broken body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{no"))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUtilityEndpoints(t *testing.T) {
	srv := testServer(t)

	t.Run("root", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "operational")
	})

	t.Run("health", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("patterns", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/patterns", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Detectors []string `json:"detectors"`
			Count     int      `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, len(body.Detectors), body.Count)
		assert.GreaterOrEqual(t, body.Count, 8)
	})

	t.Run("stats without a store", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "total_analyses")
	})
}

func TestSecurityHeaders(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestSanitizeContent(t *testing.T) {
	t.Run("strips nulls and control characters", func(t *testing.T) {
		out, err := sanitizeContent("hel\x00lo\x01 wor\x07ld\n\tok", domain.ContentEmail)
		require.NoError(t, err)
		assert.Equal(t, "hello world\n\tok", out)
	})

	t.Run("rejects empty after cleaning", func(t *testing.T) {
		_, err := sanitizeContent("\x00\x01  ", domain.ContentEmail)
		assert.ErrorIs(t, err, errEmptyContent)
	})

	t.Run("caps url length", func(t *testing.T) {
		long := "http://example.com/" + strings.Repeat("a", maxURLBytes)
		_, err := sanitizeContent(long, domain.ContentURL)
		assert.ErrorIs(t, err, errContentSize)
	})

	t.Run("caps text length", func(t *testing.T) {
		_, err := sanitizeContent(strings.Repeat("a", maxContentBytes+1), domain.ContentSMS)
		assert.ErrorIs(t, err, errContentSize)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	base := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return base }

	ok, remaining, _ := rl.allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _ = rl.allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, reset := rl.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, base.Add(time.Minute), reset)

	// other clients are unaffected
	ok, _, _ = rl.allow("5.6.7.8")
	assert.True(t, ok)

	// the window resets on the wall clock
	rl.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	ok, remaining, _ = rl.allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestRateLimitHeaders(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestTrustedHost(t *testing.T) {
	handler := trustedHost([]string{"api.internal"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Host = "api.internal:8000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, allowed)
	assert.Equal(t, http.StatusOK, rec.Code)

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Host = "evil.example"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, denied)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := corsMiddleware([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
