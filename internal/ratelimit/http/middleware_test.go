package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/ryuqq/authhub/internal/errors"
	rateLimitDomain "github.com/ryuqq/authhub/internal/ratelimit/domain"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRateLimitUseCase is a mock implementation of RateLimitUseCase for testing.
type mockRateLimitUseCase struct {
	mock.Mock
}

func (m *mockRateLimitUseCase) TryAcquire(
	ctx context.Context,
	clientKey, endpoint string,
	limitType rateLimitDomain.LimitType,
) (*rateLimitDomain.Result, error) {
	args := m.Called(ctx, clientKey, endpoint, limitType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rateLimitDomain.Result), args.Error(1)
}

func limitedRouter(useCase *mockRateLimitUseCase, opts Options, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(RateLimitMiddleware(useCase, opts, testLogger()))
	router.GET("/api/v1/users", func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitMiddleware_AllowedSetsHeaders(t *testing.T) {
	resetAt := time.Now().Add(45 * time.Second)
	useCase := &mockRateLimitUseCase{}
	useCase.On("TryAcquire", mock.Anything, "10.0.0.1", "/api/v1/users", rateLimitDomain.IPBased).
		Return(&rateLimitDomain.Result{
			Allowed:   true,
			Limit:     100,
			Remaining: 99,
			ResetAt:   resetAt,
		}, nil).Once()

	var handlerCalled bool
	router := limitedRouter(useCase, Options{Enabled: true}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "99", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(resetAt.Unix(), 10), w.Header().Get("X-RateLimit-Reset"))
	useCase.AssertExpectations(t)
}

func TestRateLimitMiddleware_RejectedWith429AndHeaders(t *testing.T) {
	resetAt := time.Now().Add(30 * time.Second)
	useCase := &mockRateLimitUseCase{}
	useCase.On("TryAcquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&rateLimitDomain.Result{
			Allowed:   false,
			Limit:     100,
			Remaining: 0,
			ResetAt:   resetAt,
		}, nil).Once()

	var handlerCalled bool
	router := limitedRouter(useCase, Options{Enabled: true}, &handlerCalled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, handlerCalled)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, reset, time.Now().Unix())
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_FailOpenOnStoreError(t *testing.T) {
	useCase := &mockRateLimitUseCase{}
	useCase.On("TryAcquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrStoreUnavailable).Once()

	var handlerCalled bool
	router := limitedRouter(useCase, Options{Enabled: true}, &handlerCalled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
}

func TestRateLimitMiddleware_FailClosedOnStoreError(t *testing.T) {
	useCase := &mockRateLimitUseCase{}
	useCase.On("TryAcquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrStoreUnavailable).Once()

	var handlerCalled bool
	router := limitedRouter(useCase, Options{Enabled: true, FailClosed: true}, &handlerCalled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, handlerCalled)
}

func TestRateLimitMiddleware_DisabledPassesThrough(t *testing.T) {
	useCase := &mockRateLimitUseCase{}

	var handlerCalled bool
	router := limitedRouter(useCase, Options{Enabled: false}, &handlerCalled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
	useCase.AssertNotCalled(t, "TryAcquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"first forwarded entry", "10.0.0.1, 172.16.0.1, 192.168.0.1", "10.0.0.1"},
		{"single forwarded entry", "10.0.0.9", "10.0.0.9"},
		{"whitespace trimmed", "  10.0.0.5 , 1.2.3.4", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("X-Forwarded-For", tt.forwarded)
			assert.Equal(t, tt.want, ClientIP(c))
		})
	}

	t.Run("falls back to remote address", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "192.0.2.10:4321"
		assert.Equal(t, "192.0.2.10", ClientIP(c))
	})
}
