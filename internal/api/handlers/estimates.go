package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
)

type EstimatesHandler struct {
	db     *gorm.DB
	shop   *shop.Service
	logger *slog.Logger
}

func NewEstimatesHandler(db *gorm.DB, shopSvc *shop.Service, logger *slog.Logger) *EstimatesHandler {
	return &EstimatesHandler{db: db, shop: shopSvc, logger: logger}
}

func estimateResponse(est *models.Estimate) dto.EstimateResponse {
	services := make([]dto.EstimateServiceResponse, len(est.Services))
	for i, snap := range est.Services {
		services[i] = dto.EstimateServiceResponse{
			ServiceID:    uuidPtrString(snap.ServiceID),
			ServiceName:  snap.ServiceName,
			ServicePrice: formatMoney(snap.ServicePrice),
			Quantity:     snap.Quantity,
		}
	}

	return dto.EstimateResponse{
		ID:             est.ID.String(),
		CustomerName:   est.CustomerName,
		CustomerPhone:  est.CustomerPhone,
		ServiceType:    string(est.ServiceType),
		Date:           formatTime(est.Date),
		DesiredDate:    formatTimePtr(est.DesiredDate),
		Notes:          est.Notes,
		Total:          formatMoney(est.Total),
		Status:         string(est.Status),
		ConvertedJobID: uuidPtrString(est.ConvertedJobID),
		Services:       services,
		CreatedAt:      formatTime(est.CreatedAt),
	}
}

// List handles GET /api/estimates, newest first, optionally by status.
func (h *EstimatesHandler) List(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)

	query := h.db.WithContext(r.Context()).Model(&models.Estimate{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("counting estimates", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var estimates []models.Estimate
	err := query.
		Preload("Services").
		Order("date DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&estimates).Error
	if err != nil {
		h.logger.Error("listing estimates", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.EstimateResponse, len(estimates))
	for i := range estimates {
		data[i] = estimateResponse(&estimates[i])
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages(total, params.PerPage),
	})
}

// Get handles GET /api/estimates/{id}.
func (h *EstimatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	est, err := h.shop.GetEstimate(r.Context(), id)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, estimateResponse(est))
}

// Create handles POST /api/estimates.
func (h *EstimatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	input := shop.CreateEstimateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Total:         req.Total,
		Services:      toServiceSelections(req.Services),
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		input.Date = date
	}
	if req.DesiredDate != "" {
		desired, err := parseDate(req.DesiredDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid desired_date")
			return
		}
		input.DesiredDate = &desired
	}

	est, err := h.shop.CreateEstimate(r.Context(), input)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, estimateResponse(est))
}

// Update handles PATCH /api/estimates/{id}. A converted estimate is immutable
// and answers 409.
func (h *EstimatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateEstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	input := shop.UpdateEstimateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Total:         req.Total,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date")
			return
		}
		input.Date = &date
	}
	if req.DesiredDate != nil {
		desired, err := parseDate(*req.DesiredDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid desired_date")
			return
		}
		input.DesiredDate = &desired
	}
	if req.Status != nil {
		status := models.EstimateStatus(*req.Status)
		input.Status = &status
	}
	if req.Services != nil {
		selections := toServiceSelections(*req.Services)
		input.Services = &selections
	}

	est, err := h.shop.UpdateEstimate(r.Context(), id, input)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, estimateResponse(est))
}

// Delete handles DELETE /api/estimates/{id}.
func (h *EstimatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Estimate{}, "id = ?", id)
	if res.Error != nil {
		h.logger.Error("deleting estimate", "error", res.Error)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Estimate deleted"})
}

// Convert handles POST /api/estimates/{id}/convert-to-job.
func (h *EstimatesHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.shop.ConvertEstimate(r.Context(), id)
	if err != nil {
		writeShopError(w, err)
		return
	}

	est, err := h.shop.GetEstimate(r.Context(), id)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ConvertEstimateResponse{
		Estimate: estimateResponse(est),
		Job:      jobResponse(job, time.Now()),
	})
}
