package shop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
	"github.com/apexcoatings/backoffice/internal/testutil"
)

func TestNextTrackingID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	t.Run("empty table starts at one", func(t *testing.T) {
		id, err := shop.NextTrackingID(db)
		require.NoError(t, err)
		assert.Equal(t, "JOB-0001", id)
	})

	t.Run("uses the maximum suffix, not the count", func(t *testing.T) {
		testutil.CreateTestJob(t, db, "JOB-0042", models.JobStatusReceived, time.Now())

		id, err := shop.NextTrackingID(db)
		require.NoError(t, err)
		assert.Equal(t, "JOB-0043", id)
	})

	t.Run("ignores tracking ids outside the pattern", func(t *testing.T) {
		testutil.CreateTestJob(t, db, "LEGACY-999", models.JobStatusReceived, time.Now())

		id, err := shop.NextTrackingID(db)
		require.NoError(t, err)
		assert.Equal(t, "JOB-0043", id)
	})
}

func TestParseTrackingNumber(t *testing.T) {
	assert.Equal(t, 42, shop.ParseTrackingNumber("JOB-0042"))
	assert.Equal(t, 7, shop.ParseTrackingNumber("JOB-7"))
	assert.Equal(t, -1, shop.ParseTrackingNumber("LEGACY-999"))
	assert.Equal(t, -1, shop.ParseTrackingNumber(""))
}
