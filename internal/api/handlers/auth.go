package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/api/middleware"
	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

// AuthHandler owns the three login strategies and the session endpoints.
// authenticator is nil when OIDC is not configured; the federated routes then
// answer 404.
type AuthHandler struct {
	users         *auth.Service
	sessions      auth.SessionStore
	authenticator *auth.Authenticator
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(users *auth.Service, sessions auth.SessionStore, authenticator *auth.Authenticator, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		sessions:      sessions,
		authenticator: authenticator,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sess *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// destroyCurrent drops whatever session the request carried. Login always
// issues a fresh session ID, never reuses a pre-login one.
func (h *AuthHandler) destroyCurrent(r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
		h.logger.Warn("destroying previous session", "error", err)
	}
}

func sessionUserResponse(user *models.User, sess *models.Session) dto.SessionUserResponse {
	return dto.SessionUserResponse{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		Name:         user.Name,
		Role:         string(sess.Role),
		IsLocalAdmin: sess.IsLocalAdmin,
		SessionKind:  string(sess.Kind),
		ExpiresAt:    formatTime(sess.ExpiresAt),
	}
}

// Login handles POST /api/login (local username/password).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.users.LoginLocal(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	h.destroyCurrent(r)
	sess, err := h.sessions.Issue(r.Context(), user, models.SessionKindLocal, nil, nil)
	if err != nil {
		h.logger.Error("issuing session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, sessionUserResponse(user, sess))
}

// LoginAdmin handles POST /api/login/admin (the backdoor strategy).
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.users.LoginLocalAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}

	h.destroyCurrent(r)
	sess, err := h.sessions.Issue(r.Context(), user, models.SessionKindLocalAdmin, nil, nil)
	if err != nil {
		h.logger.Error("issuing session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, sessionUserResponse(user, sess))
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrInactiveUser):
		writeError(w, http.StatusForbidden, "Account is inactive")
	case errors.Is(err, auth.ErrBackdoorDisabled):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// OIDCLogin handles GET /api/login: redirect to the provider with a signed,
// expiring state parameter.
func (h *AuthHandler) OIDCLogin(w http.ResponseWriter, r *http.Request) {
	if h.authenticator == nil {
		writeError(w, http.StatusNotFound, "Federated login is not configured")
		return
	}

	state, err := h.authenticator.SignedState()
	if err != nil {
		h.logger.Error("signing oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.Redirect(w, r, h.authenticator.AuthCodeURL(state), http.StatusFound)
}

// OIDCCallback handles GET /api/callback: verify state, exchange the code,
// verify the id_token, upsert the user, and issue a session carrying the
// encrypted token set.
func (h *AuthHandler) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	if h.authenticator == nil {
		writeError(w, http.StatusNotFound, "Federated login is not configured")
		return
	}

	if err := h.authenticator.VerifyState(r.URL.Query().Get("state")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	token, err := h.authenticator.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Authorization failed")
		return
	}

	claims, err := h.authenticator.VerifyIDToken(r.Context(), token)
	if err != nil {
		h.logger.Warn("id token verification failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Authorization failed")
		return
	}

	user, err := h.users.UpsertFederated(r.Context(), claims)
	if err != nil {
		h.logger.Error("upserting federated user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Account is inactive")
		return
	}

	h.destroyCurrent(r)
	sess, err := h.sessions.Issue(r.Context(), user, models.SessionKindOIDC, token, map[string]any{
		"sub":   claims.Subject,
		"email": claims.Email,
		"name":  claims.Name,
	})
	if err != nil {
		h.logger.Error("issuing session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET and POST /api/logout. Always succeeds, even without a
// session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.destroyCurrent(r)
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// CurrentUser handles GET /api/user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, sessionUserResponse(user, sess))
}
