package dto

import (
	"github.com/apexcoatings/backoffice/internal/api/validation"
)

type CreateNoteRequest struct {
	Body       string `json:"body"`
	JobID      string `json:"job_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

func (r CreateNoteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Body == "" {
		errors["body"] = "Note body is required"
	}
	if r.JobID == "" && r.CustomerID == "" {
		errors["job_id"] = "Note must reference a job or a customer"
	}
	if r.JobID != "" && !validation.IsValidUUID(r.JobID) {
		errors["job_id"] = "Invalid job ID"
	}
	if r.CustomerID != "" && !validation.IsValidUUID(r.CustomerID) {
		errors["customer_id"] = "Invalid customer ID"
	}

	return errors
}

type NoteResponse struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	JobID      string `json:"job_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	CreatedAt  string `json:"created_at"`
}
