package shop

import (
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

var trackingPattern = regexp.MustCompile(`^JOB-(\d+)$`)

// NextTrackingID scans existing jobs for the maximum numeric suffix of the
// JOB-NNNN pattern and returns the next one. Not safe under concurrent
// writers; callers run it inside the same transaction that creates the job.
func NextTrackingID(tx *gorm.DB) (string, error) {
	var ids []string
	if err := tx.Model(&models.Job{}).Pluck("tracking_id", &ids).Error; err != nil {
		return "", fmt.Errorf("scanning tracking ids: %w", err)
	}

	max := 0
	for _, id := range ids {
		m := trackingPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("JOB-%04d", max+1), nil
}

// ParseTrackingNumber extracts the numeric suffix of a tracking ID, or -1.
func ParseTrackingNumber(id string) int {
	m := trackingPattern.FindStringSubmatch(id)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}
