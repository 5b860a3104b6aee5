package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/testutil"
)

func TestLoginLocal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := auth.NewService(db, "")
	ctx := context.Background()

	user, err := svc.CreateLocal(ctx, "alice", "secret-password", "Alice", models.RoleManager)
	require.NoError(t, err)

	t.Run("valid credentials succeed", func(t *testing.T) {
		got, err := svc.LoginLocal(ctx, "alice", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, models.RoleManager, got.Role)
	})

	t.Run("username matches case-insensitively", func(t *testing.T) {
		_, err := svc.LoginLocal(ctx, "ALICE", "secret-password")
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown user return the same error", func(t *testing.T) {
		_, err1 := svc.LoginLocal(ctx, "alice", "wrong")
		_, err2 := svc.LoginLocal(ctx, "nobody", "wrong")
		assert.ErrorIs(t, err1, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, err2, auth.ErrInvalidCredentials)
		assert.Equal(t, err1.Error(), err2.Error())
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		require.NoError(t, db.Model(user).Update("is_active", false).Error)
		_, err := svc.LoginLocal(ctx, "alice", "secret-password")
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
		require.NoError(t, db.Model(user).Update("is_active", true).Error)
	})
}

func TestLoginLocalAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	t.Run("disabled without a configured password", func(t *testing.T) {
		svc := auth.NewService(db, "")
		_, err := svc.LoginLocalAdmin(ctx, "admin", "anything")
		assert.ErrorIs(t, err, auth.ErrBackdoorDisabled)
	})

	svc := auth.NewService(db, "emergency-secret")

	t.Run("materializes the singleton admin row on first use", func(t *testing.T) {
		user, err := svc.LoginLocalAdmin(ctx, "admin", "emergency-secret")
		require.NoError(t, err)
		assert.True(t, user.IsLocalAdmin)
		assert.Equal(t, models.RoleAdmin, user.Role)

		again, err := svc.LoginLocalAdmin(ctx, "Admin", "emergency-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, again.ID)

		var count int64
		db.Model(&models.User{}).Where("is_local_admin = ?", true).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("wrong password or username is invalid credentials", func(t *testing.T) {
		_, err := svc.LoginLocalAdmin(ctx, "admin", "nope")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = svc.LoginLocalAdmin(ctx, "root", "emergency-secret")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestUpsertFederated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := auth.NewService(db, "")
	ctx := context.Background()

	t.Run("first login creates an employee", func(t *testing.T) {
		user, err := svc.UpsertFederated(ctx, &auth.Claims{
			Subject: "provider|12345",
			Email:   "hank@example.com",
			Name:    "Hank Hill",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployee, user.Role)
		assert.Equal(t, "hank@example.com", user.Email)
		assert.True(t, user.IsActive)
	})

	t.Run("next login refreshes profile fields but keeps the role", func(t *testing.T) {
		var existing models.User
		require.NoError(t, db.Where("subject = ?", "provider|12345").First(&existing).Error)
		require.NoError(t, db.Model(&existing).Update("role", models.RoleManager).Error)

		user, err := svc.UpsertFederated(ctx, &auth.Claims{
			Subject: "provider|12345",
			Email:   "hank.hill@example.com",
			Name:    "Hank Hill",
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, models.RoleManager, user.Role)

		require.NoError(t, db.First(&existing, "id = ?", user.ID).Error)
		assert.Equal(t, "hank.hill@example.com", existing.Email)
	})

	t.Run("missing subject is an error", func(t *testing.T) {
		_, err := svc.UpsertFederated(ctx, &auth.Claims{Email: "x@example.com"})
		assert.Error(t, err)
	})
}

func TestCreateLocal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	svc := auth.NewService(db, "")
	ctx := context.Background()

	_, err := svc.CreateLocal(ctx, "bob", "some-password", "Bob", models.RoleEmployee)
	require.NoError(t, err)

	t.Run("duplicate username is rejected case-insensitively", func(t *testing.T) {
		_, err := svc.CreateLocal(ctx, "BOB", "other-password", "Bobby", models.RoleEmployee)
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})
}
