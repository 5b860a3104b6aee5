package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusReceived  JobStatus = "received"
	JobStatusPrepped   JobStatus = "prepped"
	JobStatusCoated    JobStatus = "coated"
	JobStatusFinished  JobStatus = "finished"
	JobStatusPaid      JobStatus = "paid"
	JobStatusCancelled JobStatus = "cancelled"
)

type CoatingType string

const (
	CoatingPowder  CoatingType = "powder"
	CoatingCeramic CoatingType = "ceramic"
	CoatingMisc    CoatingType = "misc"
)

// Job is a piece of work in the shop. Price is either set explicitly by the
// operator or equals the sum of the attached service snapshots at the time
// the service set last changed; PriceOverridden records which.
type Job struct {
	Base
	TrackingID      string      `gorm:"uniqueIndex;not null" json:"tracking_id"`
	CustomerID      *uuid.UUID  `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	ContactPhone    string      `json:"contact_phone,omitempty"`
	ReceivedDate    time.Time   `gorm:"not null;index" json:"received_date"`
	CoatingType     CoatingType `gorm:"not null;default:'powder'" json:"coating_type"`
	Items           string      `gorm:"type:text" json:"items,omitempty"`
	Price           float64     `gorm:"default:0" json:"price"`
	PriceOverridden bool        `gorm:"default:false" json:"-"`
	Status          JobStatus   `gorm:"not null;index;default:'received'" json:"status"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`

	Customer  *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Services  []JobService   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	Inventory []JobInventory `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"inventory,omitempty"`
	Notes     []Note         `gorm:"foreignKey:JobID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobService snapshots a catalog service onto a job so later catalog price
// edits don't retroactively change historical totals.
type JobService struct {
	Base
	JobID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"job_id"`
	ServiceID    *uuid.UUID `gorm:"type:uuid;index" json:"service_id,omitempty"`
	ServiceName  string     `gorm:"not null" json:"service_name"`
	ServicePrice float64    `gorm:"not null" json:"service_price"`
	Quantity     int        `gorm:"not null;default:1" json:"quantity"`
}

func (JobService) TableName() string {
	return "job_services"
}

// JobInventory records inventory consumed by a job.
type JobInventory struct {
	Base
	JobID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"job_id"`
	InventoryItemID *uuid.UUID `gorm:"type:uuid;index" json:"inventory_item_id,omitempty"`
	ItemName        string     `gorm:"not null" json:"item_name"`
	Quantity        int        `gorm:"not null;default:1" json:"quantity"`
}

func (JobInventory) TableName() string {
	return "job_inventory"
}
