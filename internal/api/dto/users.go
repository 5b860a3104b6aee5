package dto

import (
	"github.com/apexcoatings/backoffice/internal/api/validation"
)

var roles = map[string]bool{
	"admin": true, "manager": true, "employee": true, "read-only": true,
}

// CreateUserRequest provisions a local-password account. Federated accounts
// are created on first OIDC login, never through this endpoint.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

func (r CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !validation.IsValidUsername(r.Username) {
		errors["username"] = "Username must be 3-32 characters (letters, digits, . _ -)"
	}
	if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if !roles[r.Role] {
		errors["role"] = "Role must be admin, manager, employee, or read-only"
	}

	return errors
}

type UpdateUserRequest struct {
	Password *string `json:"password,omitempty"`
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r UpdateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Password != nil {
		if ok, msg := validation.IsValidPassword(*r.Password); !ok {
			errors["password"] = msg
		}
	}
	if r.Email != nil && *r.Email != "" && !validation.IsValidEmail(*r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Role != nil && !roles[*r.Role] {
		errors["role"] = "Role must be admin, manager, employee, or read-only"
	}

	return errors
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	Federated bool   `json:"federated"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
