package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
)

// Importer loads legacy spreadsheet exports into the jobs table. It is a
// single-operator batch tool: tracking IDs come from one max-suffix scan at
// the start of the batch, which is not safe under concurrent importers.
type Importer struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logger}
}

type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

type Result struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}

// column aliases accepted in the header row, lowercased
var columnAliases = map[string]string{
	"customer":      "customer",
	"customer name": "customer",
	"name":          "customer",
	"phone":         "phone",
	"contact phone": "phone",
	"coating":       "coating",
	"coating type":  "coating",
	"price":         "price",
	"total":         "price",
	"status":        "status",
	"received":      "received",
	"date":          "received",
	"date received": "received",
	"items":         "items",
	"notes":         "items",
	"description":   "items",
}

// ImportJobs reads a CSV export and creates one job per row. Each row is
// created independently; a bad row is reported and skipped, it does not abort
// the batch.
func (im *Importer) ImportJobs(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		if key, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			columns[key] = i
		}
	}
	if _, ok := columns["customer"]; !ok {
		return nil, fmt.Errorf("missing required column: Customer")
	}

	// One scan for the whole batch, then increment locally.
	nextID, err := shop.NextTrackingID(im.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	next := shop.ParseTrackingNumber(nextID)

	result := &Result{}
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}

		if err := im.importRow(ctx, columns, record, next); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Err: err.Error()})
			continue
		}
		next++
		result.Imported++
	}

	im.logger.Info("csv import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (im *Importer) importRow(ctx context.Context, columns map[string]int, record []string, trackingNum int) error {
	field := func(key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	customerName := field("customer")
	if customerName == "" {
		return fmt.Errorf("missing customer name")
	}

	coating := ClassifyCoating(field("coating"))
	status := MapStatus(field("status"))

	price, _ := ParsePrice(field("price"))

	received := time.Now()
	if parsed, ok := ParseDate(field("received")); ok {
		received = parsed
	}

	return im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := shop.FindOrCreateCustomer(tx, customerName, field("phone"))
		if err != nil {
			return err
		}

		job := models.Job{
			TrackingID:      fmt.Sprintf("JOB-%04d", trackingNum),
			CustomerID:      &customer.ID,
			ContactPhone:    field("phone"),
			ReceivedDate:    received,
			CoatingType:     CoatingTypeFor(coating),
			Items:           field("items"),
			Price:           price,
			PriceOverridden: price > 0,
			Status:          JobStatusFor(status),
		}
		if shop.IsCompleted(job.Status) {
			now := time.Now()
			job.CompletedAt = &now
		}
		return tx.Create(&job).Error
	})
}
