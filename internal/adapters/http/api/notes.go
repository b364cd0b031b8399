package api

import (
	"context"
	"net/http"

	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// NotesDependencies defines the note operations.
type NotesDependencies interface {
	AddNote(ctx context.Context, participantID, text string, actor model.Actor) (model.Note, error)
	ListNotes(ctx context.Context, participantID string) ([]model.Note, error)
}

// NotesHandler handles /notes requests.
type NotesHandler struct {
	deps NotesDependencies
	log  logger.Logger
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(deps NotesDependencies) *NotesHandler {
	return &NotesHandler{deps: deps}
}

type noteRequest struct {
	ParticipantID string `json:"participantId"`
	Note          string `json:"note"`
}

type noteResponse struct {
	Success bool       `json:"success"`
	Note    model.Note `json:"note"`
}

// HandleAdd handles POST /notes requests.
func (h *NotesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_note"
	var req noteRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	n, err := h.deps.AddNote(r.Context(), req.ParticipantID, req.Note, actor(r))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{Success: true, Note: n})
}

// HandleList handles GET /notes/{participantId} requests.
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_notes"
	id, err := pathParam(r, op, "participantId")
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	notes, err := h.deps.ListNotes(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Note{"notes": notes})
}
