package dto

import (
	"github.com/apexcoatings/backoffice/internal/api/validation"
)

var estimateStatuses = map[string]bool{
	"draft": true, "sent": true, "approved": true, "rejected": true,
}

type CreateEstimateRequest struct {
	CustomerName  string                    `json:"customer_name"`
	CustomerPhone string                    `json:"customer_phone,omitempty"`
	Date          string                    `json:"date,omitempty"`
	DesiredDate   string                    `json:"desired_date,omitempty"`
	Notes         string                    `json:"notes,omitempty"`
	Total         *float64                  `json:"total,omitempty"`
	Services      []ServiceSelectionRequest `json:"services,omitempty"`
}

func (r CreateEstimateRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CustomerName == "" {
		errors["customer_name"] = "Customer name is required"
	}
	if r.CustomerPhone != "" && !validation.IsValidPhone(r.CustomerPhone) {
		errors["customer_phone"] = "Invalid phone number"
	}
	if r.Total != nil && *r.Total < 0 {
		errors["total"] = "Total cannot be negative"
	}
	validateSelections(errors, r.Services)

	return errors
}

// UpdateEstimateRequest mirrors UpdateJobRequest: an omitted Services leaves
// the service set and total alone. Status "converted" is never accepted here;
// conversion goes through its own endpoint.
type UpdateEstimateRequest struct {
	CustomerName  *string                    `json:"customer_name,omitempty"`
	CustomerPhone *string                    `json:"customer_phone,omitempty"`
	Date          *string                    `json:"date,omitempty"`
	DesiredDate   *string                    `json:"desired_date,omitempty"`
	Notes         *string                    `json:"notes,omitempty"`
	Total         *float64                   `json:"total,omitempty"`
	Status        *string                    `json:"status,omitempty"`
	Services      *[]ServiceSelectionRequest `json:"services,omitempty"`
}

func (r UpdateEstimateRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.CustomerName != nil && *r.CustomerName == "" {
		errors["customer_name"] = "Customer name cannot be empty"
	}
	if r.Status != nil && !estimateStatuses[*r.Status] {
		errors["status"] = "Invalid status"
	}
	if r.Total != nil && *r.Total < 0 {
		errors["total"] = "Total cannot be negative"
	}
	if r.Services != nil {
		validateSelections(errors, *r.Services)
	}

	return errors
}

type EstimateServiceResponse struct {
	ServiceID    string `json:"service_id,omitempty"`
	ServiceName  string `json:"service_name"`
	ServicePrice string `json:"service_price"`
	Quantity     int    `json:"quantity"`
}

type EstimateResponse struct {
	ID             string                    `json:"id"`
	CustomerName   string                    `json:"customer_name"`
	CustomerPhone  string                    `json:"customer_phone,omitempty"`
	ServiceType    string                    `json:"service_type"`
	Date           string                    `json:"date"`
	DesiredDate    string                    `json:"desired_date,omitempty"`
	Notes          string                    `json:"notes,omitempty"`
	Total          string                    `json:"total"`
	Status         string                    `json:"status"`
	ConvertedJobID string                    `json:"converted_job_id,omitempty"`
	Services       []EstimateServiceResponse `json:"services"`
	CreatedAt      string                    `json:"created_at"`
}

// ConvertEstimateResponse returns the new job alongside the updated estimate.
type ConvertEstimateResponse struct {
	Estimate EstimateResponse `json:"estimate"`
	Job      JobResponse      `json:"job"`
}
