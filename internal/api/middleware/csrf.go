package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

const (
	csrfTokenLength = 32
	csrfHeaderName  = "X-CSRF-Token"
	csrfTokenExpiry = 24 * time.Hour
)

type csrfToken struct {
	Token     string
	ExpiresAt time.Time
}

// CSRFStore keeps per-session CSRF tokens in memory. Tokens are advisory on
// top of the sameSite=lax cookie; losing them on restart only forces clients
// to refetch.
type CSRFStore struct {
	tokens map[string]csrfToken
	mu     sync.RWMutex
}

func NewCSRFStore() *CSRFStore {
	store := &CSRFStore{
		tokens: make(map[string]csrfToken),
	}
	go store.cleanup()
	return store
}

func (s *CSRFStore) cleanup() {
	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for sessionID, token := range s.tokens {
			if now.After(token.ExpiresAt) {
				delete(s.tokens, sessionID)
			}
		}
		s.mu.Unlock()
	}
}

// GetOrCreate returns the session's token, minting one when absent or stale.
func (s *CSRFStore) GetOrCreate(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, exists := s.tokens[sessionID]; exists {
		if time.Now().Before(token.ExpiresAt) {
			return token.Token
		}
	}

	tokenBytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		tokenBytes = []byte(time.Now().String())
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	s.tokens[sessionID] = csrfToken{
		Token:     token,
		ExpiresAt: time.Now().Add(csrfTokenExpiry),
	}
	return token
}

func (s *CSRFStore) validate(sessionID, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.tokens[sessionID]
	if !exists || time.Now().After(stored.ExpiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored.Token), []byte(token)) == 1
}

// CSRF issues a token on safe requests (via response header) and requires it
// back on mutating ones. Runs after Auth so the token is bound to the session.
func CSRF(store *CSRFStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := GetSessionID(r.Context())
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				w.Header().Set(csrfHeaderName, store.GetOrCreate(sessionID))
			default:
				if !store.validate(sessionID, r.Header.Get(csrfHeaderName)) {
					http.Error(w, "Invalid CSRF token", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
