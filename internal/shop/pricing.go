package shop

import "github.com/apexcoatings/backoffice/internal/database/models"

// ServiceTotal sums snapshot price x quantity over a job's service rows.
// Totals are computed when the service set changes, never re-derived from the
// catalog, so historical prices stay stable.
func ServiceTotal(rows []models.JobService) float64 {
	var total float64
	for _, row := range rows {
		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}
		total += row.ServicePrice * float64(qty)
	}
	return total
}

// EstimateServiceTotal is ServiceTotal for estimate snapshots.
func EstimateServiceTotal(rows []models.EstimateService) float64 {
	var total float64
	for _, row := range rows {
		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}
		total += row.ServicePrice * float64(qty)
	}
	return total
}

// ResolvePrice applies the price rule: an explicit price in the request wins
// outright; otherwise the price is the service total (zero with no services).
func ResolvePrice(explicit *float64, serviceTotal float64) (price float64, overridden bool) {
	if explicit != nil {
		return *explicit, true
	}
	return serviceTotal, false
}
