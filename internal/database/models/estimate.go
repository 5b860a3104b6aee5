package models

import (
	"time"

	"github.com/google/uuid"
)

type EstimateStatus string

const (
	EstimateStatusDraft     EstimateStatus = "draft"
	EstimateStatusSent      EstimateStatus = "sent"
	EstimateStatusApproved  EstimateStatus = "approved"
	EstimateStatusRejected  EstimateStatus = "rejected"
	EstimateStatusConverted EstimateStatus = "converted"
)

// Estimate is a prospective quote. Customer name and phone are denormalized,
// not foreign keys; the customer row is only materialized on conversion.
// Conversion is one-way: a converted estimate can never convert again.
type Estimate struct {
	Base
	CustomerName    string         `gorm:"not null;index" json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone,omitempty"`
	ServiceType     CoatingType    `gorm:"default:'powder'" json:"service_type"`
	Date            time.Time      `gorm:"not null" json:"date"`
	DesiredDate     *time.Time     `json:"desired_date,omitempty"`
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	Total           float64        `gorm:"default:0" json:"total"`
	TotalOverridden bool           `gorm:"default:false" json:"-"`
	Status          EstimateStatus `gorm:"not null;index;default:'draft'" json:"status"`
	ConvertedJobID  *uuid.UUID     `gorm:"type:uuid" json:"converted_job_id,omitempty"`

	Services []EstimateService `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

func (Estimate) TableName() string {
	return "estimates"
}

// EstimateService snapshots a catalog service onto an estimate.
type EstimateService struct {
	Base
	EstimateID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"estimate_id"`
	ServiceID    *uuid.UUID `gorm:"type:uuid;index" json:"service_id,omitempty"`
	ServiceName  string     `gorm:"not null" json:"service_name"`
	ServicePrice float64    `gorm:"not null" json:"service_price"`
	Quantity     int        `gorm:"not null;default:1" json:"quantity"`
}

func (EstimateService) TableName() string {
	return "estimate_services"
}
