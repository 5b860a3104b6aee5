package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeImportJobsCSV = "import:jobs_csv"
	TypeSessionPurge  = "sessions:purge"
)

// ImportJobsCSVPayload carries a CSV export for the worker to import.
type ImportJobsCSVPayload struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

func NewImportJobsCSVTask(payload ImportJobsCSVPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportJobsCSV, data), nil
}

// NewSessionPurgeTask removes expired session rows. Enqueued on the purge
// schedule by the worker.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeSessionPurge, nil)
}
