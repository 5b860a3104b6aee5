package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/api/validation"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

type CustomersHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCustomersHandler(db *gorm.DB, logger *slog.Logger) *CustomersHandler {
	return &CustomersHandler{db: db, logger: logger}
}

func (h *CustomersHandler) customerResponse(r *http.Request, customer *models.Customer) dto.CustomerResponse {
	var jobCount int64
	h.db.WithContext(r.Context()).
		Model(&models.Job{}).
		Where("customer_id = ?", customer.ID).
		Count(&jobCount)

	return dto.CustomerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		JobCount:  jobCount,
		CreatedAt: formatTime(customer.CreatedAt),
	}
}

// List handles GET /api/customers with an optional name search.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	params := paginationFromQuery(r)

	query := h.db.WithContext(r.Context()).Model(&models.Customer{})
	if q := r.URL.Query().Get("q"); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+validation.SanitizeString(q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("counting customers", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var customers []models.Customer
	err := query.
		Order("name ASC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&customers).Error
	if err != nil {
		h.logger.Error("listing customers", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		data[i] = h.customerResponse(r, &customers[i])
	}

	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages(total, params.PerPage),
	})
}

// Get handles GET /api/customers/{id}.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := h.db.WithContext(r.Context()).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading customer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, h.customerResponse(r, &customer))
}

// Create handles POST /api/customers.
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	customer := models.Customer{
		Name:    validation.SanitizeString(req.Name),
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.db.WithContext(r.Context()).Create(&customer).Error; err != nil {
		h.logger.Error("creating customer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, h.customerResponse(r, &customer))
}

// Update handles PATCH /api/customers/{id}.
func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	var customer models.Customer
	if err := h.db.WithContext(r.Context()).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading customer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = validation.SanitizeString(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(r.Context()).Model(&customer).Updates(updates).Error; err != nil {
			h.logger.Error("updating customer", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.customerResponse(r, &customer))
}

// Delete handles DELETE /api/customers/{id}. Jobs and notes keep their rows
// with the customer reference nulled; history survives the delete.
func (h *CustomersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Note{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Customer{}, "id = ?", id)
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
		h.logger.Error("deleting customer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Customer deleted"})
}
