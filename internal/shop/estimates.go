package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

var estimateStatuses = map[models.EstimateStatus]bool{
	models.EstimateStatusDraft:    true,
	models.EstimateStatusSent:     true,
	models.EstimateStatusApproved: true,
	models.EstimateStatusRejected: true,
	// "converted" is reachable only through ConvertEstimate.
}

var ErrInvalidEstimateStatus = errors.New("invalid estimate status")

type CreateEstimateInput struct {
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	DesiredDate   *time.Time
	Notes         string
	Total         *float64 // explicit total wins over the service total
	Services      []ServiceSelection
}

type UpdateEstimateInput struct {
	CustomerName  *string
	CustomerPhone *string
	Date          *time.Time
	DesiredDate   *time.Time
	Notes         *string
	Total         *float64
	Status        *models.EstimateStatus
	Services      *[]ServiceSelection
}

// CreateEstimate snapshots the selected services and derives the service type
// from their names.
func (s *Service) CreateEstimate(ctx context.Context, input CreateEstimateInput) (*models.Estimate, error) {
	var estimate models.Estimate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snapshots, err := snapshotServices(tx, input.Services)
		if err != nil {
			return err
		}

		rows := make([]models.EstimateService, len(snapshots))
		names := make([]string, len(snapshots))
		for i, snap := range snapshots {
			rows[i] = models.EstimateService{
				ServiceID:    snap.ServiceID,
				ServiceName:  snap.ServiceName,
				ServicePrice: snap.ServicePrice,
				Quantity:     snap.Quantity,
			}
			names[i] = snap.ServiceName
		}

		total, overridden := ResolvePrice(input.Total, EstimateServiceTotal(rows))

		date := input.Date
		if date.IsZero() {
			date = time.Now()
		}

		estimate = models.Estimate{
			CustomerName:    input.CustomerName,
			CustomerPhone:   input.CustomerPhone,
			ServiceType:     CoatingTypeFromServices(names),
			Date:            date,
			DesiredDate:     input.DesiredDate,
			Notes:           input.Notes,
			Total:           total,
			TotalOverridden: overridden,
			Status:          models.EstimateStatusDraft,
		}
		if err := tx.Create(&estimate).Error; err != nil {
			return fmt.Errorf("creating estimate: %w", err)
		}

		for i := range rows {
			rows[i].EstimateID = estimate.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("creating estimate snapshots: %w", err)
			}
		}
		estimate.Services = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetEstimate(ctx, estimate.ID)
}

// UpdateEstimate mirrors UpdateJob: the total recomputes only when the
// service set changes; a converted estimate is immutable.
func (s *Service) UpdateEstimate(ctx context.Context, id uuid.UUID, input UpdateEstimateInput) (*models.Estimate, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var estimate models.Estimate
		if err := tx.First(&estimate, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if estimate.Status == models.EstimateStatusConverted {
			return ErrAlreadyConverted
		}

		updates := map[string]interface{}{}

		if input.CustomerName != nil {
			updates["customer_name"] = *input.CustomerName
		}
		if input.CustomerPhone != nil {
			updates["customer_phone"] = *input.CustomerPhone
		}
		if input.Date != nil {
			updates["date"] = *input.Date
		}
		if input.DesiredDate != nil {
			updates["desired_date"] = *input.DesiredDate
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.Status != nil {
			if !estimateStatuses[*input.Status] {
				return ErrInvalidEstimateStatus
			}
			updates["status"] = *input.Status
		}

		if input.Services != nil {
			if err := tx.Delete(&models.EstimateService{}, "estimate_id = ?", id).Error; err != nil {
				return fmt.Errorf("clearing estimate snapshots: %w", err)
			}
			snapshots, err := snapshotServices(tx, *input.Services)
			if err != nil {
				return err
			}
			rows := make([]models.EstimateService, len(snapshots))
			names := make([]string, len(snapshots))
			for i, snap := range snapshots {
				rows[i] = models.EstimateService{
					EstimateID:   id,
					ServiceID:    snap.ServiceID,
					ServiceName:  snap.ServiceName,
					ServicePrice: snap.ServicePrice,
					Quantity:     snap.Quantity,
				}
				names[i] = snap.ServiceName
			}
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return fmt.Errorf("creating estimate snapshots: %w", err)
				}
			}
			total, overridden := ResolvePrice(input.Total, EstimateServiceTotal(rows))
			updates["total"] = total
			updates["total_overridden"] = overridden
			updates["service_type"] = CoatingTypeFromServices(names)
		} else if input.Total != nil {
			updates["total"] = *input.Total
			updates["total_overridden"] = true
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&estimate).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetEstimate(ctx, id)
}

func (s *Service) GetEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	err := s.db.WithContext(ctx).
		Preload("Services").
		First(&estimate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &estimate, nil
}
