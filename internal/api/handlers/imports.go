package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/tasks"
)

const maxImportSize = 10 << 20 // 10 MiB

// ImportsHandler accepts a CSV export and hands it to the background worker.
type ImportsHandler struct {
	queue  *asynq.Client
	logger *slog.Logger
}

func NewImportsHandler(queue *asynq.Client, logger *slog.Logger) *ImportsHandler {
	return &ImportsHandler{queue: queue, logger: logger}
}

// ImportCSV handles POST /api/import. The body is either a multipart upload
// under the "file" field or the raw CSV itself.
func (h *ImportsHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "Import queue unavailable")
		return
	}

	filename := "upload.csv"
	var reader io.Reader = http.MaxBytesReader(w, r.Body, maxImportSize)

	if err := r.ParseMultipartForm(maxImportSize); err == nil {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()
		reader = file
		filename = header.Filename
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read upload")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty upload")
		return
	}

	task, err := tasks.NewImportJobsCSVTask(tasks.ImportJobsCSVPayload{
		Filename: filename,
		Data:     data,
	})
	if err != nil {
		h.logger.Error("building import task", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	info, err := h.queue.Enqueue(task, asynq.Queue("default"), asynq.MaxRetry(3))
	if err != nil {
		h.logger.Error("enqueueing import task", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Import queue unavailable")
		return
	}

	h.logger.Info("csv import enqueued", "file", filename, "bytes", len(data), "task_id", info.ID)
	writeJSON(w, http.StatusAccepted, dto.SuccessResponse{Message: "Import queued"})
}
