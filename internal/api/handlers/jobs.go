package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
)

type JobsHandler struct {
	db     *gorm.DB
	shop   *shop.Service
	logger *slog.Logger
}

func NewJobsHandler(db *gorm.DB, shopSvc *shop.Service, logger *slog.Logger) *JobsHandler {
	return &JobsHandler{db: db, shop: shopSvc, logger: logger}
}

func jobResponse(job *models.Job, now time.Time) dto.JobResponse {
	customerName := dto.UnknownCustomerName
	if job.Customer != nil {
		customerName = job.Customer.Name
	}

	days := shop.JobAgeDays(job.ReceivedDate, now)
	label, level := shop.AgeBucket(days)

	services := make([]dto.JobServiceResponse, len(job.Services))
	for i, snap := range job.Services {
		services[i] = dto.JobServiceResponse{
			ServiceID:    uuidPtrString(snap.ServiceID),
			ServiceName:  snap.ServiceName,
			ServicePrice: formatMoney(snap.ServicePrice),
			Quantity:     snap.Quantity,
		}
	}

	return dto.JobResponse{
		ID:           job.ID.String(),
		TrackingID:   job.TrackingID,
		CustomerID:   uuidPtrString(job.CustomerID),
		CustomerName: customerName,
		ContactPhone: job.ContactPhone,
		ReceivedDate: formatTime(job.ReceivedDate),
		CoatingType:  string(job.CoatingType),
		Items:        job.Items,
		Price:        formatMoney(job.Price),
		Status:       string(job.Status),
		CompletedAt:  formatTimePtr(job.CompletedAt),
		AgeDays:      days,
		AgeLabel:     label,
		AgeLevel:     string(level),
		Completed:    shop.IsCompleted(job.Status),
		Services:     services,
		CreatedAt:    formatTime(job.CreatedAt),
	}
}

// List handles GET /api/jobs. Active jobs come first, oldest received first;
// completed jobs follow, newest first. Pagination slices after ordering so the
// board order is stable across pages.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := h.db.WithContext(r.Context()).
		Preload("Customer").
		Preload("Services")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid customer_id")
			return
		}
		query = query.Where("customer_id = ?", id)
	}

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		h.logger.Error("listing jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	shop.SortJobs(jobs)

	params := paginationFromQuery(r)
	total := int64(len(jobs))
	start := params.Offset()
	if start > len(jobs) {
		start = len(jobs)
	}
	end := start + params.PerPage
	if end > len(jobs) {
		end = len(jobs)
	}

	now := time.Now()
	data := make([]dto.JobResponse, 0, end-start)
	for i := start; i < end; i++ {
		data = append(data, jobResponse(&jobs[i], now))
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages(total, params.PerPage),
	})
}

func paginationFromQuery(r *http.Request) dto.PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	params := dto.PaginationParams{Page: page, PerPage: perPage}
	params.Normalize()
	return params
}

func totalPages(total int64, perPage int) int {
	pages := int(total) / perPage
	if int(total)%perPage > 0 {
		pages++
	}
	return pages
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.shop.GetJob(r.Context(), id)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobResponse(job, time.Now()))
}

// Create handles POST /api/jobs.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	input := shop.CreateJobInput{
		CustomerName: req.CustomerName,
		ContactPhone: req.ContactPhone,
		CoatingType:  models.CoatingType(req.CoatingType),
		Items:        req.Items,
		Price:        req.Price,
		Services:     toServiceSelections(req.Services),
	}
	if req.CustomerID != nil {
		id := uuid.MustParse(*req.CustomerID)
		input.CustomerID = &id
	}
	if req.ReceivedDate != "" {
		received, err := parseDate(req.ReceivedDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid received_date")
			return
		}
		input.ReceivedDate = received
	}
	for _, sel := range req.Inventory {
		input.Inventory = append(input.Inventory, shop.InventorySelection{
			InventoryItemID: uuid.MustParse(sel.InventoryItemID),
			Quantity:        sel.Quantity,
		})
	}

	job, err := h.shop.CreateJob(r.Context(), input)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, jobResponse(job, time.Now()))
}

// Update handles PATCH /api/jobs/{id}. Omitted fields are untouched; an
// omitted services list leaves the price alone.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	input := shop.UpdateJobInput{
		CustomerName: req.CustomerName,
		ContactPhone: req.ContactPhone,
		Items:        req.Items,
		Price:        req.Price,
	}
	if req.CustomerID != nil {
		cid := uuid.MustParse(*req.CustomerID)
		input.CustomerID = &cid
	}
	if req.ReceivedDate != nil {
		received, err := parseDate(*req.ReceivedDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid received_date")
			return
		}
		input.ReceivedDate = &received
	}
	if req.CoatingType != nil {
		coating := models.CoatingType(*req.CoatingType)
		input.CoatingType = &coating
	}
	if req.Status != nil {
		status := models.JobStatus(*req.Status)
		input.Status = &status
	}
	if req.Services != nil {
		selections := toServiceSelections(*req.Services)
		input.Services = &selections
	}

	job, err := h.shop.UpdateJob(r.Context(), id, input)
	if err != nil {
		writeShopError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobResponse(job, time.Now()))
}

// Delete handles DELETE /api/jobs/{id}. Snapshots cascade with the row.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		h.logger.Error("deleting job", "error", res.Error)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Job deleted"})
}

func toServiceSelections(reqs []dto.ServiceSelectionRequest) []shop.ServiceSelection {
	selections := make([]shop.ServiceSelection, len(reqs))
	for i, sel := range reqs {
		selections[i] = shop.ServiceSelection{
			ServiceID: uuid.MustParse(sel.ServiceID),
			Quantity:  sel.Quantity,
		}
	}
	return selections
}
