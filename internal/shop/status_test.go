package shop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
)

func TestJobAgeDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("same instant is zero days", func(t *testing.T) {
		assert.Equal(t, 0, shop.JobAgeDays(now, now))
	})

	t.Run("partial days round up", func(t *testing.T) {
		assert.Equal(t, 1, shop.JobAgeDays(now.Add(-1*time.Hour), now))
		assert.Equal(t, 1, shop.JobAgeDays(now.Add(-23*time.Hour), now))
		assert.Equal(t, 2, shop.JobAgeDays(now.Add(-25*time.Hour), now))
	})

	t.Run("exact multiples stay exact", func(t *testing.T) {
		assert.Equal(t, 3, shop.JobAgeDays(now.AddDate(0, 0, -3), now))
		assert.Equal(t, 14, shop.JobAgeDays(now.AddDate(0, 0, -14), now))
	})

	t.Run("future received date uses absolute difference", func(t *testing.T) {
		assert.Equal(t, 2, shop.JobAgeDays(now.Add(48*time.Hour), now))
	})
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		days  int
		label string
		level shop.AgeLevel
	}{
		{0, "New", shop.AgeNew},
		{3, "New", shop.AgeNew},
		{4, "4d", shop.AgeWarning},
		{7, "7d", shop.AgeWarning},
		{8, "8d", shop.AgeElevated},
		{14, "14d", shop.AgeElevated},
		{15, "15d!", shop.AgeUrgent},
		{30, "30d!", shop.AgeUrgent},
	}

	for _, tt := range tests {
		label, level := shop.AgeBucket(tt.days)
		assert.Equal(t, tt.label, label, "days=%d", tt.days)
		assert.Equal(t, tt.level, level, "days=%d", tt.days)
	}
}

func TestCanTransition(t *testing.T) {
	t.Run("forward chain is allowed", func(t *testing.T) {
		assert.True(t, shop.CanTransition(models.JobStatusReceived, models.JobStatusPrepped))
		assert.True(t, shop.CanTransition(models.JobStatusPrepped, models.JobStatusCoated))
		assert.True(t, shop.CanTransition(models.JobStatusCoated, models.JobStatusFinished))
		assert.True(t, shop.CanTransition(models.JobStatusFinished, models.JobStatusPaid))
	})

	t.Run("skipping and reversing are rejected", func(t *testing.T) {
		assert.False(t, shop.CanTransition(models.JobStatusReceived, models.JobStatusCoated))
		assert.False(t, shop.CanTransition(models.JobStatusCoated, models.JobStatusPrepped))
		assert.False(t, shop.CanTransition(models.JobStatusPaid, models.JobStatusFinished))
	})

	t.Run("cancel is reachable from any non-terminal state", func(t *testing.T) {
		for _, from := range []models.JobStatus{
			models.JobStatusReceived,
			models.JobStatusPrepped,
			models.JobStatusCoated,
			models.JobStatusFinished,
		} {
			assert.True(t, shop.CanTransition(from, models.JobStatusCancelled), "from=%s", from)
		}
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		assert.False(t, shop.CanTransition(models.JobStatusPaid, models.JobStatusCancelled))
		assert.False(t, shop.CanTransition(models.JobStatusCancelled, models.JobStatusReceived))
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		assert.True(t, shop.CanTransition(models.JobStatusCoated, models.JobStatusCoated))
		assert.True(t, shop.CanTransition(models.JobStatusPaid, models.JobStatusPaid))
	})
}

func TestValidJobStatus(t *testing.T) {
	assert.True(t, shop.ValidJobStatus(models.JobStatusReceived))
	assert.True(t, shop.ValidJobStatus(models.JobStatusCancelled))
	assert.False(t, shop.ValidJobStatus(models.JobStatus("shipped")))
}

func TestSortJobs(t *testing.T) {
	now := time.Now()
	day := func(n int) time.Time { return now.AddDate(0, 0, -n) }

	jobs := []models.Job{
		{TrackingID: "JOB-0001", Status: models.JobStatusPaid, ReceivedDate: day(20)},
		{TrackingID: "JOB-0002", Status: models.JobStatusReceived, ReceivedDate: day(2)},
		{TrackingID: "JOB-0003", Status: models.JobStatusFinished, ReceivedDate: day(5)},
		{TrackingID: "JOB-0004", Status: models.JobStatusCoated, ReceivedDate: day(10)},
	}

	shop.SortJobs(jobs)

	// Active jobs first (oldest received first), then completed (newest first).
	got := make([]string, len(jobs))
	for i, j := range jobs {
		got[i] = j.TrackingID
	}
	assert.Equal(t, []string{"JOB-0004", "JOB-0002", "JOB-0003", "JOB-0001"}, got)
}
