package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/apexcoatings/backoffice/internal/database/models"
)

// ImportCoating is the legacy spreadsheet's coating classification.
type ImportCoating string

const (
	ImportCoatingPowder  ImportCoating = "powder"
	ImportCoatingCeramic ImportCoating = "ceramic"
	ImportCoatingBoth    ImportCoating = "both"
)

// ImportStatus is the legacy spreadsheet's 4-state job status.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusInProgress ImportStatus = "in-progress"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusCancelled  ImportStatus = "cancelled"
)

// ClassifyCoating maps free-text coating descriptions by case-insensitive
// substring keyword. Anything without a recognizable keyword defaults to
// ceramic; the bulk of the legacy sheet's ambiguous rows were ceramic work.
func ClassifyCoating(s string) ImportCoating {
	lower := strings.ToLower(s)
	hasPowder := strings.Contains(lower, "powder")
	hasCeramic := strings.Contains(lower, "ceramic")

	switch {
	case hasPowder && hasCeramic:
		return ImportCoatingBoth
	case hasPowder:
		return ImportCoatingPowder
	default:
		return ImportCoatingCeramic
	}
}

// statusAliases maps exact lowercase spreadsheet values into the 4-state
// subset. Unrecognized values default to pending.
var statusAliases = map[string]ImportStatus{
	"pending":     ImportStatusPending,
	"received":    ImportStatusPending,
	"new":         ImportStatusPending,
	"in-progress": ImportStatusInProgress,
	"in progress": ImportStatusInProgress,
	"prepped":     ImportStatusInProgress,
	"coated":      ImportStatusInProgress,
	"completed":   ImportStatusCompleted,
	"complete":    ImportStatusCompleted,
	"finished":    ImportStatusCompleted,
	"done":        ImportStatusCompleted,
	"paid":        ImportStatusCompleted,
	"cancelled":   ImportStatusCancelled,
	"canceled":    ImportStatusCancelled,
}

// MapStatus maps a free-text status by exact lowercase match, defaulting to
// pending.
func MapStatus(s string) ImportStatus {
	if status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status
	}
	return ImportStatusPending
}

// CoatingTypeFor translates the import classification onto the jobs table.
func CoatingTypeFor(c ImportCoating) models.CoatingType {
	switch c {
	case ImportCoatingPowder:
		return models.CoatingPowder
	case ImportCoatingBoth:
		return models.CoatingMisc
	default:
		return models.CoatingCeramic
	}
}

// JobStatusFor translates the import status onto the jobs table.
func JobStatusFor(s ImportStatus) models.JobStatus {
	switch s {
	case ImportStatusInProgress:
		return models.JobStatusPrepped
	case ImportStatusCompleted:
		return models.JobStatusFinished
	case ImportStatusCancelled:
		return models.JobStatusCancelled
	default:
		return models.JobStatusReceived
	}
}

// ParsePrice parses spreadsheet money strings like "$1,234.50".
func ParsePrice(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

var dateFormats = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate tries the date formats seen in the legacy sheets.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
