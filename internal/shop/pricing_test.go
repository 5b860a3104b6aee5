package shop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/internal/shop"
)

func TestServiceTotal(t *testing.T) {
	t.Run("sums price times quantity", func(t *testing.T) {
		rows := []models.JobService{
			{ServicePrice: 150, Quantity: 1},
			{ServicePrice: 75, Quantity: 2},
		}
		assert.Equal(t, 300.0, shop.ServiceTotal(rows))
	})

	t.Run("quantity below one counts as one", func(t *testing.T) {
		rows := []models.JobService{{ServicePrice: 50, Quantity: 0}}
		assert.Equal(t, 50.0, shop.ServiceTotal(rows))
	})

	t.Run("empty set is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, shop.ServiceTotal(nil))
	})
}

func TestResolvePrice(t *testing.T) {
	t.Run("explicit price wins over service total", func(t *testing.T) {
		explicit := 99.0
		price, overridden := shop.ResolvePrice(&explicit, 300)
		assert.Equal(t, 99.0, price)
		assert.True(t, overridden)
	})

	t.Run("explicit zero still wins", func(t *testing.T) {
		explicit := 0.0
		price, overridden := shop.ResolvePrice(&explicit, 300)
		assert.Equal(t, 0.0, price)
		assert.True(t, overridden)
	})

	t.Run("no explicit price falls back to service total", func(t *testing.T) {
		price, overridden := shop.ResolvePrice(nil, 300)
		assert.Equal(t, 300.0, price)
		assert.False(t, overridden)
	})
}
