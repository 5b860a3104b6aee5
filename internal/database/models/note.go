package models

import "github.com/google/uuid"

// Note is a free-text annotation attached to a job and/or a customer.
// Append and delete only; there is no update path.
type Note struct {
	Base
	Body       string     `gorm:"type:text;not null" json:"body"`
	JobID      *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;index" json:"author_id"`
}

func (Note) TableName() string {
	return "notes"
}
