package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleReadOnly Role = "read-only"
)

// User holds either local credential material (Username + PasswordHash) or a
// federated identity (Subject from the provider's sub claim), never both.
// IsLocalAdmin marks the emergency-access account and overrides every
// role-based check.
type User struct {
	Base
	// Uniqueness of Username and Subject is enforced in the auth service;
	// both are empty for the strategy that doesn't apply, so a partial
	// unique index would be needed at the schema level.
	Username     string `gorm:"index" json:"username,omitempty"`
	Email        string `gorm:"index" json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Subject      string `gorm:"index" json:"-"` // OIDC sub claim, empty for local users
	Name         string `json:"name"`
	Role         Role   `gorm:"default:'employee'" json:"role"`
	IsLocalAdmin bool   `gorm:"default:false" json:"is_local_admin"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
