package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

// CoatingTypeFromServices infers the coating type from service-name
// substrings: ceramic-only names mean ceramic, powder-only mean powder, a mix
// means misc, and neither defaults to powder.
func CoatingTypeFromServices(names []string) models.CoatingType {
	var hasCeramic, hasPowder bool
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "ceramic") {
			hasCeramic = true
		}
		if strings.Contains(lower, "powder") {
			hasPowder = true
		}
	}

	switch {
	case hasCeramic && hasPowder:
		return models.CoatingMisc
	case hasCeramic:
		return models.CoatingCeramic
	default:
		return models.CoatingPowder
	}
}

// ConvertEstimate turns an approved quote into a job: customer find-or-create
// by name, a new job in "received" with the estimate's snapshots and total,
// and the estimate marked converted, all in one transaction so a failure
// partway leaves nothing behind. Conversion is one-way; a converted estimate
// is rejected outright.
func (s *Service) ConvertEstimate(ctx context.Context, estimateID uuid.UUID) (*models.Job, error) {
	var jobID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var estimate models.Estimate
		if err := tx.Preload("Services").First(&estimate, "id = ?", estimateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if estimate.Status == models.EstimateStatusConverted {
			return ErrAlreadyConverted
		}

		customer, err := FindOrCreateCustomer(tx, estimate.CustomerName, estimate.CustomerPhone)
		if err != nil {
			return err
		}

		trackingID, err := NextTrackingID(tx)
		if err != nil {
			return err
		}

		names := make([]string, len(estimate.Services))
		lines := make([]string, len(estimate.Services))
		for i, row := range estimate.Services {
			names[i] = row.ServiceName
			if row.Quantity > 1 {
				lines[i] = fmt.Sprintf("%s x%d", row.ServiceName, row.Quantity)
			} else {
				lines[i] = row.ServiceName
			}
		}

		job := models.Job{
			TrackingID:      trackingID,
			CustomerID:      &customer.ID,
			ContactPhone:    estimate.CustomerPhone,
			ReceivedDate:    time.Now(),
			CoatingType:     CoatingTypeFromServices(names),
			Items:           strings.Join(lines, "\n"),
			Price:           estimate.Total,
			PriceOverridden: estimate.TotalOverridden,
			Status:          models.JobStatusReceived,
		}
		if estimate.Notes != "" {
			if job.Items != "" {
				job.Items += "\n"
			}
			job.Items += estimate.Notes
		}
		if err := tx.Create(&job).Error; err != nil {
			return fmt.Errorf("creating job: %w", err)
		}
		jobID = job.ID

		if len(estimate.Services) > 0 {
			snapshots := make([]models.JobService, len(estimate.Services))
			for i, row := range estimate.Services {
				snapshots[i] = models.JobService{
					JobID:        job.ID,
					ServiceID:    row.ServiceID,
					ServiceName:  row.ServiceName,
					ServicePrice: row.ServicePrice,
					Quantity:     row.Quantity,
				}
			}
			if err := tx.Create(&snapshots).Error; err != nil {
				return fmt.Errorf("copying service snapshots: %w", err)
			}
		}

		return tx.Model(&estimate).Updates(map[string]interface{}{
			"status":           models.EstimateStatusConverted,
			"converted_job_id": job.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetJob(ctx, jobID)
}
