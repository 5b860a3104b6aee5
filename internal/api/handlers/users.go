package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/api/middleware"
	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

type UsersHandler struct {
	db     *gorm.DB
	users  *auth.Service
	logger *slog.Logger
}

func NewUsersHandler(db *gorm.DB, users *auth.Service, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{db: db, users: users, logger: logger}
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		Federated: user.Subject != "",
		IsActive:  user.IsActive,
		CreatedAt: formatTime(user.CreatedAt),
	}
}

// List handles GET /api/users. The local-admin singleton is hidden; it is not
// a manageable account.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	err := h.db.WithContext(r.Context()).
		Where("is_local_admin = ?", false).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		h.logger.Error("listing users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.UserResponse, len(users))
	for i := range users {
		data[i] = userResponse(&users[i])
	}
	writeJSON(w, http.StatusOK, data)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

// Create handles POST /api/users. Only local-password accounts are created
// here; federated ones appear on first provider login.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.users.CreateLocal(r.Context(), req.Username, req.Password, req.Name, models.Role(req.Role))
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusConflict, "Username is already taken")
			return
		}
		h.logger.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Email != "" {
		if err := h.db.WithContext(r.Context()).Model(user).Update("email", req.Email).Error; err != nil {
			h.logger.Error("setting user email", "error", err)
		} else {
			user.Email = req.Email
		}
	}

	writeJSON(w, http.StatusCreated, userResponse(user))
}

// Update handles PATCH /api/users/{id}. Operators cannot demote or deactivate
// themselves; that would strand the session mid-flight.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	self := middleware.GetUserID(r.Context()) == user.ID
	if self && (req.Role != nil || (req.IsActive != nil && !*req.IsActive)) {
		writeError(w, http.StatusConflict, "Cannot change your own role or deactivate yourself")
		return
	}

	updates := map[string]interface{}{}
	if req.Password != nil {
		if user.Subject != "" {
			writeError(w, http.StatusBadRequest, "Federated accounts have no local password")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.logger.Error("hashing password", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		updates["password_hash"] = hash
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(r.Context()).Model(user).Updates(updates).Error; err != nil {
			h.logger.Error("updating user", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	updated, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(updated))
}

// Delete handles DELETE /api/users/{id}. Sessions for the account die with it.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if middleware.GetUserID(r.Context()) == id {
		writeError(w, http.StatusConflict, "Cannot delete your own account")
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Session{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("deleting user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User deleted"})
}
