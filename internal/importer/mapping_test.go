package importer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/importer"
)

func TestClassifyCoating(t *testing.T) {
	tests := []struct {
		in   string
		want importer.ImportCoating
	}{
		{"Powder", importer.ImportCoatingPowder},
		{"powder coat - gloss black", importer.ImportCoatingPowder},
		{"Ceramic", importer.ImportCoatingCeramic},
		{"CERAMIC/MCX", importer.ImportCoatingCeramic},
		{"Powder + Ceramic", importer.ImportCoatingBoth},
		{"", importer.ImportCoatingCeramic},
		{"cerakote", importer.ImportCoatingCeramic},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, importer.ClassifyCoating(tt.in), "input=%q", tt.in)
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		in   string
		want importer.ImportStatus
	}{
		{"pending", importer.ImportStatusPending},
		{"In Progress", importer.ImportStatusInProgress},
		{"in-progress", importer.ImportStatusInProgress},
		{"Completed", importer.ImportStatusCompleted},
		{"Paid", importer.ImportStatusCompleted},
		{"finished", importer.ImportStatusCompleted},
		{"Cancelled", importer.ImportStatusCancelled},
		{"canceled", importer.ImportStatusCancelled},
		{"", importer.ImportStatusPending},
		{"whatever", importer.ImportStatusPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, importer.MapStatus(tt.in), "input=%q", tt.in)
	}
}

func TestCoatingTypeFor(t *testing.T) {
	assert.Equal(t, models.CoatingPowder, importer.CoatingTypeFor(importer.ImportCoatingPowder))
	assert.Equal(t, models.CoatingCeramic, importer.CoatingTypeFor(importer.ImportCoatingCeramic))
	assert.Equal(t, models.CoatingMisc, importer.CoatingTypeFor(importer.ImportCoatingBoth))
}

func TestJobStatusFor(t *testing.T) {
	assert.Equal(t, models.JobStatusReceived, importer.JobStatusFor(importer.ImportStatusPending))
	assert.Equal(t, models.JobStatusPrepped, importer.JobStatusFor(importer.ImportStatusInProgress))
	assert.Equal(t, models.JobStatusFinished, importer.JobStatusFor(importer.ImportStatusCompleted))
	assert.Equal(t, models.JobStatusCancelled, importer.JobStatusFor(importer.ImportStatusCancelled))
}

func TestParsePrice(t *testing.T) {
	t.Run("plain number", func(t *testing.T) {
		price, ok := importer.ParsePrice("150")
		assert.True(t, ok)
		assert.Equal(t, 150.0, price)
	})

	t.Run("dollar sign and thousands separator", func(t *testing.T) {
		price, ok := importer.ParsePrice("$1,234.50")
		assert.True(t, ok)
		assert.Equal(t, 1234.50, price)
	})

	t.Run("empty and junk are rejected", func(t *testing.T) {
		_, ok := importer.ParsePrice("")
		assert.False(t, ok)
		_, ok = importer.ParsePrice("call for quote")
		assert.False(t, ok)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"3/5/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"03/05/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"Mar 5, 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := importer.ParseDate(tt.in)
		assert.True(t, ok, "input=%q", tt.in)
		assert.True(t, tt.want.Equal(got), "input=%q got=%v", tt.in, got)
	}

	_, ok := importer.ParseDate("sometime last week")
	assert.False(t, ok)
}
