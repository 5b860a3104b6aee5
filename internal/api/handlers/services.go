package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

type ServicesHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewServicesHandler(db *gorm.DB, logger *slog.Logger) *ServicesHandler {
	return &ServicesHandler{db: db, logger: logger}
}

func serviceResponse(svc *models.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:        svc.ID.String(),
		Name:      svc.Name,
		Category:  string(svc.Category),
		Price:     formatMoney(svc.Price),
		CreatedAt: formatTime(svc.CreatedAt),
	}
}

// List handles GET /api/services, optionally filtered by category. The
// catalog is small; no pagination.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := h.db.WithContext(r.Context()).Order("category ASC, name ASC")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		h.logger.Error("listing services", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.ServiceResponse, len(services))
	for i := range services {
		data[i] = serviceResponse(&services[i])
	}
	writeJSON(w, http.StatusOK, data)
}

// Get handles GET /api/services/{id}.
func (h *ServicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var svc models.Service
	if err := h.db.WithContext(r.Context()).First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading service", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, serviceResponse(&svc))
}

// Create handles POST /api/services.
func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	svc := models.Service{
		Name:     strings.TrimSpace(req.Name),
		Category: models.ServiceCategory(req.Category),
		Price:    req.Price,
	}
	if err := h.db.WithContext(r.Context()).Create(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "A service with that name already exists")
			return
		}
		h.logger.Error("creating service", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, serviceResponse(&svc))
}

// Update handles PATCH /api/services/{id}. Catalog price edits never touch
// existing jobs or estimates; those carry their own snapshots.
func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	var svc models.Service
	if err := h.db.WithContext(r.Context()).First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading service", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(r.Context()).Model(&svc).Updates(updates).Error; err != nil {
			h.logger.Error("updating service", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, serviceResponse(&svc))
}

// Delete handles DELETE /api/services/{id}. Snapshots on jobs and estimates
// keep their copied name and price; only the catalog entry goes away.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		h.logger.Error("deleting service", "error", res.Error)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Service deleted"})
}
