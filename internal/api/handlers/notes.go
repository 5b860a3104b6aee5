package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/api/middleware"
	"github.com/apexcoatings/backoffice/internal/api/validation"
	"github.com/apexcoatings/backoffice/internal/database/models"
)

// NotesHandler is append-and-delete only; notes have no update path.
type NotesHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewNotesHandler(db *gorm.DB, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{db: db, logger: logger}
}

func (h *NotesHandler) noteResponse(r *http.Request, note *models.Note) dto.NoteResponse {
	resp := dto.NoteResponse{
		ID:         note.ID.String(),
		Body:       note.Body,
		JobID:      uuidPtrString(note.JobID),
		CustomerID: uuidPtrString(note.CustomerID),
		AuthorID:   note.AuthorID.String(),
		CreatedAt:  formatTime(note.CreatedAt),
	}

	var author models.User
	if err := h.db.WithContext(r.Context()).
		Select("name", "username").
		First(&author, "id = ?", note.AuthorID).Error; err == nil {
		resp.AuthorName = author.Name
		if resp.AuthorName == "" {
			resp.AuthorName = author.Username
		}
	}
	return resp
}

// List handles GET /api/notes filtered by job_id or customer_id, newest first.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := h.db.WithContext(r.Context()).Order("created_at DESC")

	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		id, err := uuid.Parse(jobID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid job_id")
			return
		}
		query = query.Where("job_id = ?", id)
	}
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid customer_id")
			return
		}
		query = query.Where("customer_id = ?", id)
	}

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		h.logger.Error("listing notes", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := make([]dto.NoteResponse, len(notes))
	for i := range notes {
		data[i] = h.noteResponse(r, &notes[i])
	}
	writeJSON(w, http.StatusOK, data)
}

// Create handles POST /api/notes. The author comes from the session, never
// the payload.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	note := models.Note{
		Body:     validation.SanitizeString(req.Body),
		AuthorID: middleware.GetUserID(r.Context()),
	}
	if req.JobID != "" {
		id := uuid.MustParse(req.JobID)
		note.JobID = &id
	}
	if req.CustomerID != "" {
		id := uuid.MustParse(req.CustomerID)
		note.CustomerID = &id
	}

	if err := h.db.WithContext(r.Context()).Create(&note).Error; err != nil {
		h.logger.Error("creating note", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, h.noteResponse(r, &note))
}

// Delete handles DELETE /api/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Note{}, "id = ?", id)
	if res.Error != nil {
		h.logger.Error("deleting note", "error", res.Error)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Note deleted"})
}
