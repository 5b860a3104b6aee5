package shop_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
	"github.com/apexcoatings/backoffice/internal/testutil"
)

func newTestService(t *testing.T) (*shop.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return shop.NewService(db, logger), db
}

func TestFindOrCreateCustomer(t *testing.T) {
	_, db := newTestService(t)

	t.Run("creates a missing customer", func(t *testing.T) {
		customer, err := shop.FindOrCreateCustomer(db, "Alice Johnson", "555-1234")
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", customer.Name)
		assert.Equal(t, "555-1234", customer.Phone)
	})

	t.Run("matches case-insensitively without creating a duplicate", func(t *testing.T) {
		customer, err := shop.FindOrCreateCustomer(db, "alice johnson", "")
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", customer.Name)

		var count int64
		db.Model(&models.Customer{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := shop.FindOrCreateCustomer(db, "   ", "")
		assert.Error(t, err)
	})
}

func TestCreateJob(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	powder := testutil.CreateTestService(t, db, "Powder Coat - Single Color", models.ServiceCategoryPowder, 150)
	blast := testutil.CreateTestService(t, db, "Media Blasting", models.ServiceCategoryPrep, 75)

	t.Run("price defaults to the sum of selected services", func(t *testing.T) {
		job, err := svc.CreateJob(ctx, shop.CreateJobInput{
			CustomerName: "Alice Johnson",
			Services: []shop.ServiceSelection{
				{ServiceID: powder.ID, Quantity: 1},
				{ServiceID: blast.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "JOB-0001", job.TrackingID)
		assert.Equal(t, models.JobStatusReceived, job.Status)
		assert.Equal(t, 300.0, job.Price)
		assert.False(t, job.PriceOverridden)
		assert.Len(t, job.Services, 2)
		require.NotNil(t, job.Customer)
		assert.Equal(t, "Alice Johnson", job.Customer.Name)
	})

	t.Run("explicit price wins over the service total", func(t *testing.T) {
		price := 50.0
		job, err := svc.CreateJob(ctx, shop.CreateJobInput{
			CustomerName: "Bob Smith",
			Price:        &price,
			Services: []shop.ServiceSelection{
				{ServiceID: powder.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 50.0, job.Price)
		assert.True(t, job.PriceOverridden)
	})

	t.Run("unknown service fails the whole transaction", func(t *testing.T) {
		var before int64
		db.Model(&models.Job{}).Count(&before)

		_, err := svc.CreateJob(ctx, shop.CreateJobInput{
			CustomerName: "Carol Danvers",
			Services: []shop.ServiceSelection{
				{ServiceID: uuid.New(), Quantity: 1},
			},
		})
		assert.ErrorIs(t, err, shop.ErrUnknownService)

		var after int64
		db.Model(&models.Job{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("consumes selected inventory", func(t *testing.T) {
		item := models.InventoryItem{
			Base:     models.Base{ID: uuid.New()},
			Name:     "Gloss Black Powder",
			Quantity: 10,
		}
		require.NoError(t, db.Create(&item).Error)

		_, err := svc.CreateJob(ctx, shop.CreateJobInput{
			CustomerName: "Dave Lister",
			Inventory: []shop.InventorySelection{
				{InventoryItemID: item.ID, Quantity: 3},
			},
		})
		require.NoError(t, err)

		var reloaded models.InventoryItem
		require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
		assert.Equal(t, 7, reloaded.Quantity)
	})
}

func TestUpdateJob(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	powder := testutil.CreateTestService(t, db, "Powder Coat - Single Color", models.ServiceCategoryPowder, 150)
	ceramic := testutil.CreateTestService(t, db, "Ceramic Coat - Headers", models.ServiceCategoryCeramic, 250)

	newJob := func(t *testing.T) *models.Job {
		job, err := svc.CreateJob(ctx, shop.CreateJobInput{
			CustomerName: "Alice Johnson",
			Services: []shop.ServiceSelection{
				{ServiceID: powder.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)
		return job
	}

	t.Run("omitted services leave the price untouched", func(t *testing.T) {
		job := newJob(t)

		items := "wheels"
		updated, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{Items: &items})
		require.NoError(t, err)

		assert.Equal(t, "wheels", updated.Items)
		assert.Equal(t, 150.0, updated.Price)
		assert.Len(t, updated.Services, 1)
	})

	t.Run("changing the service set recomputes the price", func(t *testing.T) {
		job := newJob(t)

		selections := []shop.ServiceSelection{
			{ServiceID: powder.ID, Quantity: 1},
			{ServiceID: ceramic.ID, Quantity: 1},
		}
		updated, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{Services: &selections})
		require.NoError(t, err)

		assert.Equal(t, 400.0, updated.Price)
		assert.False(t, updated.PriceOverridden)
		assert.Len(t, updated.Services, 2)
	})

	t.Run("explicit price in the same request beats the recompute", func(t *testing.T) {
		job := newJob(t)

		price := 111.0
		selections := []shop.ServiceSelection{{ServiceID: ceramic.ID, Quantity: 1}}
		updated, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{
			Services: &selections,
			Price:    &price,
		})
		require.NoError(t, err)
		assert.Equal(t, 111.0, updated.Price)
		assert.True(t, updated.PriceOverridden)
	})

	t.Run("price alone becomes an override", func(t *testing.T) {
		job := newJob(t)

		price := 42.0
		updated, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 42.0, updated.Price)
		assert.True(t, updated.PriceOverridden)
		assert.Len(t, updated.Services, 1)
	})

	t.Run("valid status transition sets completed timestamp", func(t *testing.T) {
		job := newJob(t)

		for _, status := range []models.JobStatus{
			models.JobStatusPrepped,
			models.JobStatusCoated,
			models.JobStatusFinished,
		} {
			s := status
			updated, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{Status: &s})
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		}

		final, err := svc.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.NotNil(t, final.CompletedAt)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		job := newJob(t)

		status := models.JobStatusFinished
		_, err := svc.UpdateJob(ctx, job.ID, shop.UpdateJobInput{Status: &status})
		assert.ErrorIs(t, err, shop.ErrInvalidTransition)
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		items := "x"
		_, err := svc.UpdateJob(ctx, uuid.New(), shop.UpdateJobInput{Items: &items})
		assert.ErrorIs(t, err, shop.ErrNotFound)
	})
}

func TestCoatingTypeFromServices(t *testing.T) {
	assert.Equal(t, models.CoatingCeramic, shop.CoatingTypeFromServices([]string{"Ceramic Coat - Headers"}))
	assert.Equal(t, models.CoatingPowder, shop.CoatingTypeFromServices([]string{"Powder Coat - Wheels"}))
	assert.Equal(t, models.CoatingMisc, shop.CoatingTypeFromServices([]string{"Ceramic Coat", "Powder Coat"}))
	assert.Equal(t, models.CoatingPowder, shop.CoatingTypeFromServices([]string{"Media Blasting"}))
	assert.Equal(t, models.CoatingPowder, shop.CoatingTypeFromServices(nil))
}

func TestConvertEstimate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	ceramic := testutil.CreateTestService(t, db, "Ceramic Coat - Headers", models.ServiceCategoryCeramic, 250)

	t.Run("creates the job and marks the estimate converted", func(t *testing.T) {
		est, err := svc.CreateEstimate(ctx, shop.CreateEstimateInput{
			CustomerName:  "Eve Adams",
			CustomerPhone: "555-9876",
			Services: []shop.ServiceSelection{
				{ServiceID: ceramic.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 500.0, est.Total)

		job, err := svc.ConvertEstimate(ctx, est.ID)
		require.NoError(t, err)

		assert.Equal(t, models.JobStatusReceived, job.Status)
		assert.Equal(t, 500.0, job.Price)
		assert.Equal(t, models.CoatingCeramic, job.CoatingType)
		assert.Contains(t, job.Items, "Ceramic Coat - Headers x2")
		require.NotNil(t, job.Customer)
		assert.Equal(t, "Eve Adams", job.Customer.Name)
		assert.Len(t, job.Services, 1)

		reloaded, err := svc.GetEstimate(ctx, est.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EstimateStatusConverted, reloaded.Status)
		require.NotNil(t, reloaded.ConvertedJobID)
		assert.Equal(t, job.ID, *reloaded.ConvertedJobID)
	})

	t.Run("second conversion is rejected and creates nothing", func(t *testing.T) {
		est, err := svc.CreateEstimate(ctx, shop.CreateEstimateInput{CustomerName: "Frank Poole"})
		require.NoError(t, err)

		_, err = svc.ConvertEstimate(ctx, est.ID)
		require.NoError(t, err)

		var before int64
		db.Model(&models.Job{}).Count(&before)

		_, err = svc.ConvertEstimate(ctx, est.ID)
		assert.ErrorIs(t, err, shop.ErrAlreadyConverted)

		var after int64
		db.Model(&models.Job{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("converted estimate refuses further edits", func(t *testing.T) {
		est, err := svc.CreateEstimate(ctx, shop.CreateEstimateInput{CustomerName: "Grace Hopper"})
		require.NoError(t, err)
		_, err = svc.ConvertEstimate(ctx, est.ID)
		require.NoError(t, err)

		notes := "late change"
		_, err = svc.UpdateEstimate(ctx, est.ID, shop.UpdateEstimateInput{Notes: &notes})
		assert.ErrorIs(t, err, shop.ErrAlreadyConverted)
	})

	t.Run("unknown estimate is not found", func(t *testing.T) {
		_, err := svc.ConvertEstimate(ctx, uuid.New())
		assert.ErrorIs(t, err, shop.ErrNotFound)
	})
}

func TestEstimateStatusUpdates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	est, err := svc.CreateEstimate(ctx, shop.CreateEstimateInput{CustomerName: "Hugo First"})
	require.NoError(t, err)
	assert.Equal(t, models.EstimateStatusDraft, est.Status)

	t.Run("regular statuses are accepted", func(t *testing.T) {
		status := models.EstimateStatusSent
		updated, err := svc.UpdateEstimate(ctx, est.ID, shop.UpdateEstimateInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.EstimateStatusSent, updated.Status)
	})

	t.Run("converted cannot be set directly", func(t *testing.T) {
		status := models.EstimateStatusConverted
		_, err := svc.UpdateEstimate(ctx, est.ID, shop.UpdateEstimateInput{Status: &status})
		assert.ErrorIs(t, err, shop.ErrInvalidEstimateStatus)
	})
}

func TestJobSurvivesCustomerDelete(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	job, err := svc.CreateJob(ctx, shop.CreateJobInput{CustomerName: "Short Timer"})
	require.NoError(t, err)
	require.NotNil(t, job.CustomerID)

	require.NoError(t, db.Model(&models.Job{}).
		Where("customer_id = ?", *job.CustomerID).
		Update("customer_id", nil).Error)
	require.NoError(t, db.Delete(&models.Customer{}, "id = ?", *job.CustomerID).Error)

	reloaded, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CustomerID)
	assert.Nil(t, reloaded.Customer)

	// The job row itself is intact.
	assert.Equal(t, job.TrackingID, reloaded.TrackingID)
}

func TestCreateJobDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	job, err := svc.CreateJob(ctx, shop.CreateJobInput{CustomerName: "Default Dan"})
	require.NoError(t, err)

	assert.Equal(t, models.CoatingPowder, job.CoatingType)
	assert.True(t, job.ReceivedDate.After(before))
	assert.Equal(t, 0.0, job.Price)
	assert.False(t, job.PriceOverridden)
}
