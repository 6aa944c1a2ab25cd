package middlewares

import (
	"formbridge-service/internal/pkg/exceptions"
	"formbridge-service/internal/pkg/utils"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const HeaderAPIKey = "x-api-key"

// APIKeyAuth guards the submission endpoints. Only a bcrypt hash of the key
// is held in configuration; an empty hash disables the check for local
// development.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configuredHash := m.InternalConfig.App.APIKeyHash
		if configuredHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get(HeaderAPIKey)
		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(configuredHash), []byte(apiKey)); err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}
