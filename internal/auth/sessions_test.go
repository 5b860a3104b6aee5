package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/testutil"
	"github.com/apexcoatings/backoffice/pkg/crypto"
)

type stubRefresher struct {
	token *oauth2.Token
	err   error
	calls int
}

func (s *stubRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	s.calls++
	return s.token, s.err
}

func newSessionStore(t *testing.T, db *gorm.DB, ttl time.Duration, refresher auth.TokenRefresher) *auth.Sessions {
	t.Helper()
	encryptor, err := crypto.NewEncryptor("")
	require.NoError(t, err)
	return auth.NewSessions(db, encryptor, ttl, refresher)
}

func TestSessionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, models.RoleManager)
	store := newSessionStore(t, db, time.Hour, nil)

	t.Run("issue and get round-trip", func(t *testing.T) {
		sess, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
		require.NoError(t, err)
		assert.Len(t, sess.ID, 43)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		assert.Equal(t, models.RoleManager, got.Role)
		assert.Equal(t, models.SessionKindLocal, got.Kind)
	})

	t.Run("unknown session id", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("destroy removes the row", func(t *testing.T) {
		sess, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
		require.NoError(t, err)

		require.NoError(t, store.Destroy(ctx, sess.ID))
		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("each session gets a distinct id", func(t *testing.T) {
		a, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
		require.NoError(t, err)
		b, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestSessionTTL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, models.RoleEmployee)
	store := newSessionStore(t, db, time.Hour, nil)

	sess, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
	require.NoError(t, err)

	// Push the expiry into the past.
	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	// Expired sessions are destroyed on sight.
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestPurgeExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, models.RoleEmployee)
	store := newSessionStore(t, db, time.Hour, nil)

	live, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
	require.NoError(t, err)
	dead, err := store.Issue(ctx, user, models.SessionKindLocal, nil, nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", dead.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestFederatedTokenStorage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db, models.RoleEmployee)

	t.Run("tokens are encrypted at rest", func(t *testing.T) {
		store := newSessionStore(t, db, time.Hour, nil)

		token := &oauth2.Token{
			AccessToken:  "access-secret",
			RefreshToken: "refresh-secret",
			Expiry:       time.Now().Add(time.Hour),
		}
		sess, err := store.Issue(ctx, user, models.SessionKindOIDC, token, map[string]any{"sub": "x"})
		require.NoError(t, err)

		var raw models.Session
		require.NoError(t, db.First(&raw, "id = ?", sess.ID).Error)
		assert.NotEqual(t, "access-secret", raw.AccessToken)
		assert.NotEqual(t, "refresh-secret", raw.RefreshToken)
		assert.NotContains(t, raw.AccessToken, "access-secret")

		access, err := store.AccessToken(&raw)
		require.NoError(t, err)
		assert.Equal(t, "access-secret", access)
	})

	t.Run("expired provider token is refreshed in place", func(t *testing.T) {
		refresher := &stubRefresher{token: &oauth2.Token{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			Expiry:       time.Now().Add(time.Hour),
		}}
		store := newSessionStore(t, db, time.Hour, refresher)

		sess, err := store.Issue(ctx, user, models.SessionKindOIDC, &oauth2.Token{
			AccessToken:  "stale-access",
			RefreshToken: "stale-refresh",
			Expiry:       time.Now().Add(-time.Minute),
		}, nil)
		require.NoError(t, err)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, refresher.calls)

		access, err := store.AccessToken(got)
		require.NoError(t, err)
		assert.Equal(t, "new-access", access)
	})

	t.Run("refresh failure destroys the session", func(t *testing.T) {
		refresher := &stubRefresher{err: errors.New("provider says no")}
		store := newSessionStore(t, db, time.Hour, refresher)

		sess, err := store.Issue(ctx, user, models.SessionKindOIDC, &oauth2.Token{
			AccessToken:  "stale-access",
			RefreshToken: "stale-refresh",
			Expiry:       time.Now().Add(-time.Minute),
		}, nil)
		require.NoError(t, err)

		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, auth.ErrSessionExpired)

		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	})
}
