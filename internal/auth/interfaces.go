package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

// Authenticator strategies all resolve to a local user row; the session layer
// is what unifies them into one request identity.
type UserAuthenticator interface {
	LoginLocal(ctx context.Context, username, password string) (*models.User, error)
	LoginLocalAdmin(ctx context.Context, username, password string) (*models.User, error)
	UpsertFederated(ctx context.Context, claims *Claims) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Compile-time interface satisfaction checks
var _ UserAuthenticator = (*Service)(nil)
