package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/importer"
)

// Handler processes background tasks in the worker.
type Handler struct {
	importer *importer.Importer
	sessions auth.SessionStore
	logger   *slog.Logger
}

func NewHandler(imp *importer.Importer, sessions auth.SessionStore, logger *slog.Logger) *Handler {
	return &Handler{importer: imp, sessions: sessions, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeImportJobsCSV, h.HandleImportJobsCSV)
	mux.HandleFunc(TypeSessionPurge, h.HandleSessionPurge)
}

func (h *Handler) HandleImportJobsCSV(ctx context.Context, t *asynq.Task) error {
	var payload ImportJobsCSVPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}

	h.logger.Info("starting csv import", "filename", payload.Filename, "bytes", len(payload.Data))

	result, err := h.importer.ImportJobs(ctx, bytes.NewReader(payload.Data))
	if err != nil {
		return fmt.Errorf("importing jobs: %w", err)
	}

	h.logger.Info("csv import task done",
		"filename", payload.Filename,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return nil
}

func (h *Handler) HandleSessionPurge(ctx context.Context, t *asynq.Task) error {
	purged, err := h.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purging sessions: %w", err)
	}
	if purged > 0 {
		h.logger.Info("purged expired sessions", "count", purged)
	}
	return nil
}
