package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"formbridge-service/internal/app/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func middlewaresWithHash(t *testing.T, hash string) *Middlewares {
	t.Helper()
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{APIKeyHash: hash},
	})
}

func TestAPIKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("valid-key"), bcrypt.MinCost)
	assert.NoError(t, err)

	t.Run("valid key passes", func(t *testing.T) {
		m := middlewaresWithHash(t, string(hash))
		req := httptest.NewRequest(http.MethodPost, "/formbridge/v1/submissions", nil)
		req.Header.Set(HeaderAPIKey, "valid-key")
		rec := httptest.NewRecorder()

		m.APIKeyAuth(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		m := middlewaresWithHash(t, string(hash))
		req := httptest.NewRequest(http.MethodPost, "/formbridge/v1/submissions", nil)
		req.Header.Set(HeaderAPIKey, "wrong-key")
		rec := httptest.NewRecorder()

		m.APIKeyAuth(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		m := middlewaresWithHash(t, string(hash))
		req := httptest.NewRequest(http.MethodPost, "/formbridge/v1/submissions", nil)
		rec := httptest.NewRecorder()

		m.APIKeyAuth(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty hash disables the check", func(t *testing.T) {
		m := middlewaresWithHash(t, "")
		req := httptest.NewRequest(http.MethodPost, "/formbridge/v1/submissions", nil)
		rec := httptest.NewRecorder()

		m.APIKeyAuth(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
