package dto

// LoginRequest is the local username/password strategy.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// AdminLoginRequest is the local-admin backdoor. Username must be "admin";
// the password is the shared environment secret.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AdminLoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// SessionUserResponse is the current-identity payload for GET /api/user.
type SessionUserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	IsLocalAdmin bool   `json:"is_local_admin"`
	SessionKind  string `json:"session_kind"`
	ExpiresAt    string `json:"expires_at"`
}
