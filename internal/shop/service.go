package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownService    = errors.New("unknown service in selection")
	ErrUnknownItem       = errors.New("unknown inventory item in selection")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyConverted  = errors.New("estimate already converted")
)

// Service owns the multi-step job/estimate flows. Anything that touches more
// than one row runs inside a single transaction.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ServiceSelection picks a catalog service (and how many of it) for a job or
// estimate. The catalog price is snapshotted at attach time.
type ServiceSelection struct {
	ServiceID uuid.UUID
	Quantity  int
}

// InventorySelection records stock consumed by a job.
type InventorySelection struct {
	InventoryItemID uuid.UUID
	Quantity        int
}

// FindOrCreateCustomer matches by exact case-insensitive name, creating the
// row when absent.
func FindOrCreateCustomer(tx *gorm.DB, name, phone string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("customer name is required")
	}

	var customer models.Customer
	err := tx.Where("LOWER(name) = ?", strings.ToLower(name)).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up customer: %w", err)
	}

	customer = models.Customer{Name: name, Phone: phone}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return &customer, nil
}

// snapshotServices resolves a selection against the catalog and returns the
// snapshot rows (without parent IDs set).
func snapshotServices(tx *gorm.DB, selections []ServiceSelection) ([]models.JobService, error) {
	if len(selections) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(selections))
	for i, sel := range selections {
		ids[i] = sel.ServiceID
	}

	var catalog []models.Service
	if err := tx.Where("id IN ?", ids).Find(&catalog).Error; err != nil {
		return nil, fmt.Errorf("loading services: %w", err)
	}
	byID := make(map[uuid.UUID]models.Service, len(catalog))
	for _, svc := range catalog {
		byID[svc.ID] = svc
	}

	rows := make([]models.JobService, 0, len(selections))
	for _, sel := range selections {
		svc, ok := byID[sel.ServiceID]
		if !ok {
			return nil, ErrUnknownService
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		id := svc.ID
		rows = append(rows, models.JobService{
			ServiceID:    &id,
			ServiceName:  svc.Name,
			ServicePrice: svc.Price,
			Quantity:     qty,
		})
	}
	return rows, nil
}

// GetJob loads a job with its snapshots and customer.
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Services").
		Preload("Inventory").
		First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}
