package dto

type CreateInventoryItemRequest struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku,omitempty"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	ReorderLevel int     `json:"reorder_level,omitempty"`
	UnitCost     float64 `json:"unit_cost,omitempty"`
}

func (r CreateInventoryItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Quantity < 0 {
		errors["quantity"] = "Quantity cannot be negative"
	}
	if r.ReorderLevel < 0 {
		errors["reorder_level"] = "Reorder level cannot be negative"
	}
	if r.UnitCost < 0 {
		errors["unit_cost"] = "Unit cost cannot be negative"
	}

	return errors
}

type UpdateInventoryItemRequest struct {
	Name         *string  `json:"name,omitempty"`
	SKU          *string  `json:"sku,omitempty"`
	Quantity     *int     `json:"quantity,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	ReorderLevel *int     `json:"reorder_level,omitempty"`
	UnitCost     *float64 `json:"unit_cost,omitempty"`
}

func (r UpdateInventoryItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name != nil && *r.Name == "" {
		errors["name"] = "Name cannot be empty"
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		errors["quantity"] = "Quantity cannot be negative"
	}
	if r.ReorderLevel != nil && *r.ReorderLevel < 0 {
		errors["reorder_level"] = "Reorder level cannot be negative"
	}
	if r.UnitCost != nil && *r.UnitCost < 0 {
		errors["unit_cost"] = "Unit cost cannot be negative"
	}

	return errors
}

type InventoryItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku,omitempty"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit,omitempty"`
	ReorderLevel int    `json:"reorder_level"`
	UnitCost     string `json:"unit_cost"`
	LowStock     bool   `json:"low_stock"`
	CreatedAt    string `json:"created_at"`
}
