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

type InventoryHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewInventoryHandler(db *gorm.DB, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{db: db, logger: logger}
}

func inventoryResponse(item *models.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:           item.ID.String(),
		Name:         item.Name,
		SKU:          item.SKU,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		ReorderLevel: item.ReorderLevel,
		UnitCost:     formatMoney(item.UnitCost),
		LowStock:     item.ReorderLevel > 0 && item.Quantity <= item.ReorderLevel,
		CreatedAt:    formatTime(item.CreatedAt),
	}
}

// List handles GET /api/inventory. ?low=true restricts to items at or below
// their reorder level.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := h.db.WithContext(r.Context()).Order("name ASC")
	if r.URL.Query().Get("low") == "true" {
		query = query.Where("reorder_level > 0 AND quantity <= reorder_level")
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		h.logger.Error("listing inventory", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.InventoryItemResponse, len(items))
	for i := range items {
		data[i] = inventoryResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, data)
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var item models.InventoryItem
	if err := h.db.WithContext(r.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading inventory item", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, inventoryResponse(&item))
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInventoryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	item := models.InventoryItem{
		Name:         strings.TrimSpace(req.Name),
		SKU:          req.SKU,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
	}
	if err := h.db.WithContext(r.Context()).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "An item with that SKU already exists")
			return
		}
		h.logger.Error("creating inventory item", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, inventoryResponse(&item))
}

// Update handles PATCH /api/inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateInventoryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	var item models.InventoryItem
	if err := h.db.WithContext(r.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("loading inventory item", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ReorderLevel != nil {
		updates["reorder_level"] = *req.ReorderLevel
	}
	if req.UnitCost != nil {
		updates["unit_cost"] = *req.UnitCost
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(r.Context()).Model(&item).Updates(updates).Error; err != nil {
			h.logger.Error("updating inventory item", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	writeJSON(w, http.StatusOK, inventoryResponse(&item))
}

// Delete handles DELETE /api/inventory/{id}. Job usage rows keep the copied
// item name.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		h.logger.Error("deleting inventory item", "error", res.Error)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Inventory item deleted"})
}
