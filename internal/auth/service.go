package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown-user and wrong-password so the
	// login response never leaks account existence.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrBackdoorDisabled   = errors.New("local admin login is not configured")
)

const localAdminUsername = "admin"

// Service implements the three login strategies over the users table.
type Service struct {
	db                 *gorm.DB
	localAdminPassword string
}

func NewService(db *gorm.DB, localAdminPassword string) *Service {
	return &Service{db: db, localAdminPassword: localAdminPassword}
}

// LoginLocal authenticates a username/password pair against the stored bcrypt
// hash. A store or hashing failure surfaces as an error, never as a silent
// authentication failure.
func (s *Service) LoginLocal(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	if user.PasswordHash == "" || !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// LoginLocalAdmin authenticates the hardcoded admin account against the
// environment-provided secret, independent of the password-hash table. The
// singleton admin row is materialized on first use.
func (s *Service) LoginLocalAdmin(ctx context.Context, username, password string) (*models.User, error) {
	if s.localAdminPassword == "" {
		return nil, ErrBackdoorDisabled
	}
	if !strings.EqualFold(username, localAdminUsername) {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.localAdminPassword)) != 1 {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND is_local_admin = ?", localAdminUsername, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Username:     localAdminUsername,
			Name:         "Local Admin",
			Role:         models.RoleAdmin,
			IsLocalAdmin: true,
			IsActive:     true,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating local admin: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up local admin: %w", err)
	}
	return &user, nil
}

// UpsertFederated finds or creates the user row for a federated identity,
// keyed by the provider's subject claim, copying profile fields on every
// login. Federated users are never hard-deleted.
func (s *Service) UpsertFederated(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims.Subject == "" {
		return nil, errors.New("missing subject claim")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("subject = ?", claims.Subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Subject:  claims.Subject,
			Email:    claims.Email,
			Name:     claims.Name,
			Role:     models.RoleEmployee,
			IsActive: true,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating federated user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up federated user: %w", err)
	}

	updates := map[string]interface{}{}
	if claims.Email != "" && claims.Email != user.Email {
		updates["email"] = claims.Email
	}
	if claims.Name != "" && claims.Name != user.Name {
		updates["name"] = claims.Name
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("updating federated user: %w", err)
		}
	}
	return &user, nil
}

// CreateLocal registers a local account. Username uniqueness is enforced here
// case-insensitively.
func (s *Service) CreateLocal(ctx context.Context, username, password, name string, role models.Role) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
