package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/pkg/crypto"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

const sessionIDLength = 43 // base64 of 32 random bytes

// SessionStore is the session lifecycle abstraction injected into handlers
// and middleware. The only implementation persists sessions in the relational
// store so they survive process restarts.
type SessionStore interface {
	Issue(ctx context.Context, user *models.User, kind models.SessionKind, token *oauth2.Token, claims map[string]any) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

// Sessions is the GORM-backed SessionStore. Federated token material is
// age-encrypted before it touches the table.
type Sessions struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
	ttl       time.Duration
	refresher TokenRefresher // nil when OIDC is not configured
}

// TokenRefresher re-exchanges a refresh token for a fresh token set.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

func NewSessions(db *gorm.DB, encryptor *crypto.Encryptor, ttl time.Duration, refresher TokenRefresher) *Sessions {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Sessions{db: db, encryptor: encryptor, ttl: ttl, refresher: refresher}
}

func (s *Sessions) Issue(ctx context.Context, user *models.User, kind models.SessionKind, token *oauth2.Token, claims map[string]any) (*models.Session, error) {
	id, err := crypto.GenerateRandomString(sessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	sess := &models.Session{
		ID:           id,
		UserID:       user.ID,
		Role:         user.Role,
		IsLocalAdmin: user.IsLocalAdmin,
		Kind:         kind,
		ExpiresAt:    time.Now().Add(s.ttl),
	}

	if claims != nil {
		data, err := json.Marshal(claims)
		if err != nil {
			return nil, fmt.Errorf("marshaling claims: %w", err)
		}
		sess.Claims = string(data)
	}

	if token != nil {
		if err := s.storeToken(sess, token); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// Get loads a session, enforcing the TTL and, for federated sessions, the
// provider token expiry. An expired token is refreshed in place; refresh
// failure destroys the session and reports it as expired, never as an
// internal error.
func (s *Sessions) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	now := time.Now()
	if now.After(sess.ExpiresAt) {
		_ = s.Destroy(ctx, id)
		return nil, ErrSessionExpired
	}

	if sess.Kind == models.SessionKindOIDC && sess.TokenExpiry != nil && now.After(*sess.TokenExpiry) {
		if err := s.refresh(ctx, &sess); err != nil {
			_ = s.Destroy(ctx, id)
			return nil, ErrSessionExpired
		}
	}

	return &sess, nil
}

func (s *Sessions) Destroy(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (s *Sessions) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, "expires_at < ?", time.Now())
	return res.RowsAffected, res.Error
}

// AccessToken decrypts the stored access token of a federated session.
func (s *Sessions) AccessToken(sess *models.Session) (string, error) {
	if sess.AccessToken == "" {
		return "", nil
	}
	return s.encryptor.DecryptString(sess.AccessToken)
}

func (s *Sessions) refresh(ctx context.Context, sess *models.Session) error {
	if s.refresher == nil || sess.RefreshToken == "" {
		return ErrSessionExpired
	}

	refreshToken, err := s.encryptor.DecryptString(sess.RefreshToken)
	if err != nil {
		return fmt.Errorf("decrypting refresh token: %w", err)
	}

	token, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}

	if err := s.storeToken(sess, token); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(sess).Updates(map[string]interface{}{
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
		"token_expiry":  sess.TokenExpiry,
	}).Error
}

func (s *Sessions) storeToken(sess *models.Session, token *oauth2.Token) error {
	access, err := s.encryptor.EncryptString(token.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypting access token: %w", err)
	}
	sess.AccessToken = access

	if token.RefreshToken != "" {
		refresh, err := s.encryptor.EncryptString(token.RefreshToken)
		if err != nil {
			return fmt.Errorf("encrypting refresh token: %w", err)
		}
		sess.RefreshToken = refresh
	}

	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		sess.TokenExpiry = &expiry
	}
	return nil
}

var _ SessionStore = (*Sessions)(nil)
