package dto

import (
	"github.com/apexcoatings/backoffice/internal/api/validation"
)

var coatingTypes = map[string]bool{
	"powder": true, "ceramic": true, "misc": true,
}

var jobStatuses = map[string]bool{
	"received": true, "prepped": true, "coated": true,
	"finished": true, "paid": true, "cancelled": true,
}

// ServiceSelectionRequest picks a catalog service. Quantity defaults to 1.
type ServiceSelectionRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// InventorySelectionRequest records stock consumed by a job.
type InventorySelectionRequest struct {
	InventoryItemID string `json:"inventory_item_id"`
	Quantity        int    `json:"quantity,omitempty"`
}

type CreateJobRequest struct {
	CustomerID   *string                     `json:"customer_id,omitempty"`
	CustomerName string                      `json:"customer_name,omitempty"`
	ContactPhone string                      `json:"contact_phone,omitempty"`
	ReceivedDate string                      `json:"received_date,omitempty"` // RFC3339 or YYYY-MM-DD
	CoatingType  string                      `json:"coating_type,omitempty"`
	Items        string                      `json:"items,omitempty"`
	Price        *float64                    `json:"price,omitempty"`
	Services     []ServiceSelectionRequest   `json:"services,omitempty"`
	Inventory    []InventorySelectionRequest `json:"inventory,omitempty"`
}

func (r CreateJobRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CustomerID == nil && r.CustomerName == "" {
		errors["customer_name"] = "Customer is required"
	}
	if r.CustomerID != nil && !validation.IsValidUUID(*r.CustomerID) {
		errors["customer_id"] = "Invalid customer ID"
	}
	if r.CoatingType != "" && !coatingTypes[r.CoatingType] {
		errors["coating_type"] = "Invalid coating type"
	}
	if r.ContactPhone != "" && !validation.IsValidPhone(r.ContactPhone) {
		errors["contact_phone"] = "Invalid phone number"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}
	validateSelections(errors, r.Services)
	for _, sel := range r.Inventory {
		if !validation.IsValidUUID(sel.InventoryItemID) {
			errors["inventory"] = "Invalid inventory item ID"
			break
		}
	}

	return errors
}

// UpdateJobRequest uses pointers so an omitted field is left untouched; in
// particular an omitted Services must not disturb the existing service set or
// price.
type UpdateJobRequest struct {
	CustomerID   *string                    `json:"customer_id,omitempty"`
	CustomerName *string                    `json:"customer_name,omitempty"`
	ContactPhone *string                    `json:"contact_phone,omitempty"`
	ReceivedDate *string                    `json:"received_date,omitempty"`
	CoatingType  *string                    `json:"coating_type,omitempty"`
	Items        *string                    `json:"items,omitempty"`
	Price        *float64                   `json:"price,omitempty"`
	Status       *string                    `json:"status,omitempty"`
	Services     *[]ServiceSelectionRequest `json:"services,omitempty"`
}

func (r UpdateJobRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CustomerID != nil && !validation.IsValidUUID(*r.CustomerID) {
		errors["customer_id"] = "Invalid customer ID"
	}
	if r.CoatingType != nil && !coatingTypes[*r.CoatingType] {
		errors["coating_type"] = "Invalid coating type"
	}
	if r.Status != nil && !jobStatuses[*r.Status] {
		errors["status"] = "Invalid status"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}
	if r.Services != nil {
		validateSelections(errors, *r.Services)
	}

	return errors
}

func validateSelections(errors map[string]string, selections []ServiceSelectionRequest) {
	for _, sel := range selections {
		if !validation.IsValidUUID(sel.ServiceID) {
			errors["services"] = "Invalid service ID"
			return
		}
		if sel.Quantity < 0 {
			errors["services"] = "Quantity cannot be negative"
			return
		}
	}
}

// JobServiceResponse is a service snapshot on a job.
type JobServiceResponse struct {
	ServiceID    string `json:"service_id,omitempty"`
	ServiceName  string `json:"service_name"`
	ServicePrice string `json:"service_price"`
	Quantity     int    `json:"quantity"`
}

type JobResponse struct {
	ID           string               `json:"id"`
	TrackingID   string               `json:"tracking_id"`
	CustomerID   string               `json:"customer_id,omitempty"`
	CustomerName string               `json:"customer_name"`
	ContactPhone string               `json:"contact_phone,omitempty"`
	ReceivedDate string               `json:"received_date"`
	CoatingType  string               `json:"coating_type"`
	Items        string               `json:"items,omitempty"`
	Price        string               `json:"price"`
	Status       string               `json:"status"`
	CompletedAt  string               `json:"completed_at,omitempty"`
	AgeDays      int                  `json:"age_days"`
	AgeLabel     string               `json:"age_label"`
	AgeLevel     string               `json:"age_level"`
	Completed    bool                 `json:"completed"`
	Services     []JobServiceResponse `json:"services"`
	CreatedAt    string               `json:"created_at"`
}

// UnknownCustomerName is shown when a job's customer was deleted.
const UnknownCustomerName = "Unknown/Deleted Customer"
