package tokenmanager

import (
	"formbridge-service/internal/app/config"
	"formbridge-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// refreshMargin renews the cached token before the FHIR store would reject
// it mid-request.
const refreshMargin = 30 * time.Second

// TokenManager mints the HS256 bearer tokens the FHIR store expects and
// caches the signed string until shortly before expiry. Safe for concurrent
// use by every FHIR client.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenManager(cfg *config.InternalConfig) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.JWT.Secret),
		issuer:   cfg.JWT.Issuer,
		audience: cfg.JWT.Audience,
		ttl:      time.Duration(cfg.JWT.ExpTimeInMin) * time.Minute,
		now:      time.Now,
	}
}

// BearerToken returns a signed token, reusing the cached one while it is
// still comfortably valid.
func (m *TokenManager) BearerToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if m.token != "" && now.Add(refreshMargin).Before(m.expiresAt) {
		return m.token, nil
	}

	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Audience:  jwt.ClaimStrings{m.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}

	m.token = signed
	m.expiresAt = expiresAt
	return signed, nil
}
