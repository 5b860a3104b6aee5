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

type CreateJobInput struct {
	CustomerID   *uuid.UUID
	CustomerName string // find-or-create when CustomerID is absent
	ContactPhone string
	ReceivedDate time.Time
	CoatingType  models.CoatingType
	Items        string
	Price        *float64 // explicit price wins over the service total
	Services     []ServiceSelection
	Inventory    []InventorySelection
}

// UpdateJobInput uses pointers throughout so an omitted field is
// distinguishable from a zero value. Services == nil leaves the existing
// service set and price untouched.
type UpdateJobInput struct {
	CustomerID   *uuid.UUID
	CustomerName *string
	ContactPhone *string
	ReceivedDate *time.Time
	CoatingType  *models.CoatingType
	Items        *string
	Price        *float64
	Status       *models.JobStatus
	Services     *[]ServiceSelection
}

// CreateJob creates a job with service snapshots, consuming inventory, inside
// one transaction. The tracking ID is assigned from the max-suffix scan in the
// same transaction.
func (s *Service) CreateJob(ctx context.Context, input CreateJobInput) (*models.Job, error) {
	var job models.Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerID := input.CustomerID
		if customerID == nil && input.CustomerName != "" {
			customer, err := FindOrCreateCustomer(tx, input.CustomerName, input.ContactPhone)
			if err != nil {
				return err
			}
			customerID = &customer.ID
		}

		trackingID, err := NextTrackingID(tx)
		if err != nil {
			return err
		}

		snapshots, err := snapshotServices(tx, input.Services)
		if err != nil {
			return err
		}

		price, overridden := ResolvePrice(input.Price, ServiceTotal(snapshots))

		received := input.ReceivedDate
		if received.IsZero() {
			received = time.Now()
		}
		coating := input.CoatingType
		if coating == "" {
			coating = models.CoatingPowder
		}

		job = models.Job{
			TrackingID:      trackingID,
			CustomerID:      customerID,
			ContactPhone:    input.ContactPhone,
			ReceivedDate:    received,
			CoatingType:     coating,
			Items:           input.Items,
			Price:           price,
			PriceOverridden: overridden,
			Status:          models.JobStatusReceived,
		}
		if err := tx.Create(&job).Error; err != nil {
			return fmt.Errorf("creating job: %w", err)
		}

		for i := range snapshots {
			snapshots[i].JobID = job.ID
		}
		if len(snapshots) > 0 {
			if err := tx.Create(&snapshots).Error; err != nil {
				return fmt.Errorf("creating service snapshots: %w", err)
			}
		}
		job.Services = snapshots

		if err := consumeInventory(tx, job.ID, input.Inventory); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetJob(ctx, job.ID)
}

// UpdateJob applies a partial update. The price recomputes only when the
// request changes the service set; a status change is validated against the
// transition table.
func (s *Service) UpdateJob(ctx context.Context, id uuid.UUID, input UpdateJobInput) (*models.Job, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{}

		if input.CustomerID != nil {
			updates["customer_id"] = *input.CustomerID
		} else if input.CustomerName != nil {
			phone := job.ContactPhone
			if input.ContactPhone != nil {
				phone = *input.ContactPhone
			}
			customer, err := FindOrCreateCustomer(tx, *input.CustomerName, phone)
			if err != nil {
				return err
			}
			updates["customer_id"] = customer.ID
		}
		if input.ContactPhone != nil {
			updates["contact_phone"] = *input.ContactPhone
		}
		if input.ReceivedDate != nil {
			updates["received_date"] = *input.ReceivedDate
		}
		if input.CoatingType != nil {
			updates["coating_type"] = *input.CoatingType
		}
		if input.Items != nil {
			updates["items"] = *input.Items
		}

		if input.Status != nil {
			if !ValidJobStatus(*input.Status) {
				return ErrInvalidTransition
			}
			if !CanTransition(job.Status, *input.Status) {
				return ErrInvalidTransition
			}
			updates["status"] = *input.Status
			if IsCompleted(*input.Status) && job.CompletedAt == nil {
				now := time.Now()
				updates["completed_at"] = &now
			}
		}

		if input.Services != nil {
			// Service set changed: replace snapshots and recompute the price
			// unless this same request carries an explicit one.
			if err := tx.Delete(&models.JobService{}, "job_id = ?", id).Error; err != nil {
				return fmt.Errorf("clearing service snapshots: %w", err)
			}
			snapshots, err := snapshotServices(tx, *input.Services)
			if err != nil {
				return err
			}
			for i := range snapshots {
				snapshots[i].JobID = id
			}
			if len(snapshots) > 0 {
				if err := tx.Create(&snapshots).Error; err != nil {
					return fmt.Errorf("creating service snapshots: %w", err)
				}
			}
			price, overridden := ResolvePrice(input.Price, ServiceTotal(snapshots))
			updates["price"] = price
			updates["price_overridden"] = overridden
		} else if input.Price != nil {
			updates["price"] = *input.Price
			updates["price_overridden"] = true
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&job).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetJob(ctx, id)
}

func consumeInventory(tx *gorm.DB, jobID uuid.UUID, selections []InventorySelection) error {
	for _, sel := range selections {
		var item models.InventoryItem
		if err := tx.First(&item, "id = ?", sel.InventoryItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownItem
			}
			return err
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		itemID := item.ID
		row := models.JobInventory{
			JobID:           jobID,
			InventoryItemID: &itemID,
			ItemName:        item.Name,
			Quantity:        qty,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("recording inventory use: %w", err)
		}
		if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - ?", qty)).Error; err != nil {
			return fmt.Errorf("decrementing inventory: %w", err)
		}
	}
	return nil
}
