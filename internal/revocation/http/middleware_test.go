package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/ryuqq/authhub/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRevocationUseCase is a mock implementation of RevocationUseCase for testing.
type mockRevocationUseCase struct {
	mock.Mock
}

func (m *mockRevocationUseCase) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *mockRevocationUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// mockJTIExtractor is a mock implementation of JTIExtractor for testing.
type mockJTIExtractor struct {
	mock.Mock
}

func (m *mockJTIExtractor) ExtractJTI(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func guardedRouter(
	revocation *mockRevocationUseCase,
	extractor *mockJTIExtractor,
	opts Options,
	handlerCalled *bool,
) *gin.Engine {
	router := gin.New()
	router.Use(RevocationMiddleware(revocation, extractor, opts, testLogger()))
	register := func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/users", register)
	router.POST("/api/v1/users", register)
	return router
}

func TestRevocationMiddleware_RevokedToken(t *testing.T) {
	extractor := &mockJTIExtractor{}
	extractor.On("ExtractJTI", "some-token").Return("jti-1", nil).Once()

	revocation := &mockRevocationUseCase{}
	revocation.On("IsRevoked", mock.Anything, "jti-1").Return(true, nil).Once()

	var handlerCalled bool
	router := guardedRouter(revocation, extractor, Options{}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerCalled, "protected handler must never run for a revoked token")
	assert.JSONEq(t, `{"error": "Token has been revoked"}`, w.Body.String())
	revocation.AssertExpectations(t)
}

func TestRevocationMiddleware_CleanTokenPasses(t *testing.T) {
	extractor := &mockJTIExtractor{}
	extractor.On("ExtractJTI", "some-token").Return("jti-1", nil).Once()

	revocation := &mockRevocationUseCase{}
	revocation.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil).Once()

	var handlerCalled bool
	router := guardedRouter(revocation, extractor, Options{}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
}

func TestRevocationMiddleware_NoTokenPassesThrough(t *testing.T) {
	extractor := &mockJTIExtractor{}
	revocation := &mockRevocationUseCase{}

	var handlerCalled bool
	router := guardedRouter(revocation, extractor, Options{}, &handlerCalled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
	revocation.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}

func TestRevocationMiddleware_UnparseableTokenPassesThrough(t *testing.T) {
	extractor := &mockJTIExtractor{}
	extractor.On("ExtractJTI", "garbage").Return("", assert.AnError).Once()

	revocation := &mockRevocationUseCase{}

	var handlerCalled bool
	router := guardedRouter(revocation, extractor, Options{}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
	revocation.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}

func TestRevocationMiddleware_StoreUnavailableFailsClosed(t *testing.T) {
	extractor := &mockJTIExtractor{}
	extractor.On("ExtractJTI", "some-token").Return("jti-1", nil)

	revocation := &mockRevocationUseCase{}
	revocation.On("IsRevoked", mock.Anything, "jti-1").
		Return(false, apperrors.ErrStoreUnavailable)

	t.Run("mutating request always rejected", func(t *testing.T) {
		var handlerCalled bool
		router := guardedRouter(revocation, extractor, Options{FailOpenReads: true}, &handlerCalled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, handlerCalled)
	})

	t.Run("read-only request rejected by default", func(t *testing.T) {
		var handlerCalled bool
		router := guardedRouter(revocation, extractor, Options{}, &handlerCalled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, handlerCalled)
	})

	t.Run("read-only request passes when configured fail-open", func(t *testing.T) {
		var handlerCalled bool
		router := guardedRouter(revocation, extractor, Options{FailOpenReads: true}, &handlerCalled)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerCalled)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"standard prefix", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase prefix", "bearer token", "token", true},
		{"mixed case prefix", "BeArEr token", "token", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"prefix only", "Bearer ", "", false},
		{"no space", "Bearertoken", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ExtractBearerToken(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, token)
		})
	}
}
