package shop

import (
	"fmt"
	"sort"
	"time"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

// AgeLevel grades how long a job has been sitting in the shop.
type AgeLevel string

const (
	AgeNew      AgeLevel = "new"
	AgeWarning  AgeLevel = "warning"
	AgeElevated AgeLevel = "elevated"
	AgeUrgent   AgeLevel = "urgent"
)

// JobAgeDays returns the job age in whole days: ceil(|now-received| / 1 day).
func JobAgeDays(received, now time.Time) int {
	diff := now.Sub(received)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// AgeBucket maps an age in days to its display label and urgency level.
// Transitions happen exactly at the 3/7/14 day boundaries. Display only; no
// state transition hangs off this.
func AgeBucket(days int) (string, AgeLevel) {
	switch {
	case days <= 3:
		return "New", AgeNew
	case days <= 7:
		return fmt.Sprintf("%dd", days), AgeWarning
	case days <= 14:
		return fmt.Sprintf("%dd", days), AgeElevated
	default:
		return fmt.Sprintf("%dd!", days), AgeUrgent
	}
}

// IsCompleted reports whether a job counts as done for display partitioning.
func IsCompleted(status models.JobStatus) bool {
	return status == models.JobStatusFinished || status == models.JobStatusPaid
}

// SortJobs orders active jobs oldest-received-first (urgency) and completed
// jobs newest-received-first, active before completed.
func SortJobs(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		ci, cj := IsCompleted(jobs[i].Status), IsCompleted(jobs[j].Status)
		if ci != cj {
			return !ci
		}
		if ci {
			return jobs[i].ReceivedDate.After(jobs[j].ReceivedDate)
		}
		return jobs[i].ReceivedDate.Before(jobs[j].ReceivedDate)
	})
}

// jobTransitions is the allowed next-state table. The chain is forward-only;
// cancelled is reachable from any non-terminal state; paid and cancelled are
// terminal.
var jobTransitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusReceived: {models.JobStatusPrepped, models.JobStatusCancelled},
	models.JobStatusPrepped:  {models.JobStatusCoated, models.JobStatusCancelled},
	models.JobStatusCoated:   {models.JobStatusFinished, models.JobStatusCancelled},
	models.JobStatusFinished: {models.JobStatusPaid, models.JobStatusCancelled},
	models.JobStatusPaid:     {},
	models.JobStatusCancelled: {},
}

// CanTransition reports whether a status change is allowed. A same-state
// update is always a no-op and allowed.
func CanTransition(from, to models.JobStatus) bool {
	if from == to {
		return true
	}
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidJobStatus reports whether the value is a known status at all.
func ValidJobStatus(s models.JobStatus) bool {
	_, ok := jobTransitions[s]
	return ok
}
