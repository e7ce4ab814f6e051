package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecobin-telemetry/internal/config"
	"ecobin-telemetry/internal/logger"
	appErrors "ecobin-telemetry/pkg/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("production"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestFixedWindowLimiter_AdmitsUpToMax(t *testing.T) {
	limiter := NewFixedWindowLimiter(60*time.Second, 60, "unknown_bin")
	now := time.Now()

	for i := 0; i < 60; i++ {
		allowed, _ := limiter.Admit("BIN-001", now)
		require.True(t, allowed, "request %d should be admitted", i+1)
	}

	allowed, retryAfter := limiter.Admit("BIN-001", now)
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestFixedWindowLimiter_WindowReset(t *testing.T) {
	limiter := NewFixedWindowLimiter(60*time.Second, 1, "unknown_bin")
	start := time.Now()

	allowed, _ := limiter.Admit("BIN-001", start)
	require.True(t, allowed)

	allowed, retryAfter := limiter.Admit("BIN-001", start.Add(30*time.Second))
	assert.False(t, allowed)
	assert.Equal(t, 30, retryAfter)

	allowed, _ = limiter.Admit("BIN-001", start.Add(60*time.Second))
	assert.True(t, allowed, "a fresh window should admit again")
}

func TestFixedWindowLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewFixedWindowLimiter(60*time.Second, 1, "unknown_bin")
	now := time.Now()

	allowed, _ := limiter.Admit("BIN-001", now)
	require.True(t, allowed)
	allowed, _ = limiter.Admit("BIN-001", now)
	require.False(t, allowed)

	allowed, _ = limiter.Admit("BIN-002", now)
	assert.True(t, allowed, "a different bin has its own quota")
}

func TestFixedWindowLimiter_KeylessRequestsShareFallbackBucket(t *testing.T) {
	limiter := NewFixedWindowLimiter(60*time.Second, 2, "unknown_bin")
	now := time.Now()

	allowed, _ := limiter.Admit("", now)
	require.True(t, allowed)
	allowed, _ = limiter.Admit("unknown_bin", now)
	require.True(t, allowed, "the explicit fallback key shares the keyless bucket")

	allowed, _ = limiter.Admit("", now)
	assert.False(t, allowed, "keyless requests exhaust the shared fallback quota")
}

func TestFixedWindowLimiter_MinimumRetryAfter(t *testing.T) {
	limiter := NewFixedWindowLimiter(time.Second, 1, "unknown_bin")
	start := time.Now()

	allowed, _ := limiter.Admit("BIN-001", start)
	require.True(t, allowed)

	_, retryAfter := limiter.Admit("BIN-001", start.Add(999*time.Millisecond))
	assert.GreaterOrEqual(t, retryAfter, 1)
}

func ingestTestRouter(cfg *config.IngestConfig) *gin.Engine {
	router := gin.New()
	router.POST("/ingest",
		RequireBinCodeMiddleware(),
		IngestRateLimitMiddleware(cfg),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	return router
}

func TestIngestRateLimitMiddleware_RejectsWith429(t *testing.T) {
	cfg := &config.IngestConfig{WindowSeconds: 60, MaxPerWindow: 2, FallbackKey: "unknown_bin"}
	router := ingestTestRouter(cfg)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest?bin_code=BIN-001", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest?bin_code=BIN-001", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Too many requests", body.Error)
	assert.GreaterOrEqual(t, body.RetryAfter, 1)
}

func TestIngestRateLimitMiddleware_PerBinQuota(t *testing.T) {
	cfg := &config.IngestConfig{WindowSeconds: 60, MaxPerWindow: 1, FallbackKey: "unknown_bin"}
	router := ingestTestRouter(cfg)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/ingest?bin_code=BIN-%03d", i), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "first request for each bin is admitted")
	}
}

func TestRequireBinCodeMiddleware_MissingBinCode(t *testing.T) {
	cfg := &config.IngestConfig{WindowSeconds: 60, MaxPerWindow: 60, FallbackKey: "unknown_bin"}
	router := ingestTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Missing required parameter: bin_code", body["error"])
}

func TestIngestChain_RecordsRefusalReasons(t *testing.T) {
	cfg := &config.IngestConfig{WindowSeconds: 60, MaxPerWindow: 1, FallbackKey: "unknown_bin"}
	var recorded []error

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			recorded = append(recorded, e.Err)
		}
	})
	router.POST("/ingest",
		RequireBinCodeMiddleware(),
		IngestRateLimitMiddleware(cfg),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, recorded, 1)
	assert.ErrorIs(t, recorded[0], appErrors.ErrMissingBinCode)

	recorded = nil
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest?bin_code=BIN-001", nil))
	}
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Len(t, recorded, 1)
	assert.ErrorIs(t, recorded[0], appErrors.ErrTooManyRequests)
}

func TestRequireBinCodeMiddleware_RunsBeforeRateLimiter(t *testing.T) {
	// With a quota of 1, repeated keyless requests would trip the shared
	// fallback bucket if they reached the limiter. They must all get the
	// 400 instead.
	cfg := &config.IngestConfig{WindowSeconds: 60, MaxPerWindow: 1, FallbackKey: "unknown_bin"}
	router := ingestTestRouter(cfg)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}
