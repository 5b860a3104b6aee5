package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionKind string

const (
	SessionKindLocal      SessionKind = "local"
	SessionKindOIDC       SessionKind = "oidc"
	SessionKindLocalAdmin SessionKind = "local-admin"
)

// Session is a server-side session record. It carries only what a request
// needs: identity, role, and (for federated logins) the encrypted token set.
// Rows survive process restarts; expired rows are purged by the worker.
type Session struct {
	ID           string      `gorm:"primaryKey" json:"id"` // random 43-char token
	UserID       uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	Role         Role        `gorm:"not null" json:"role"`
	IsLocalAdmin bool        `gorm:"default:false" json:"is_local_admin"`
	Kind         SessionKind `gorm:"not null" json:"kind"`

	// Federated sessions only. Tokens are age-encrypted at rest.
	Claims       string     `gorm:"type:text" json:"-"` // JSON profile claims
	AccessToken  string     `gorm:"type:text" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	TokenExpiry  *time.Time `json:"-"`

	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
