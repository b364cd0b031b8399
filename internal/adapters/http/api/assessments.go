package api

import (
	"context"
	"net/http"

	service "github.com/okian/mindset-tracker/internal/app"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// AssessmentsDependencies defines the rating operations.
type AssessmentsDependencies interface {
	ListRatings(ctx context.Context, participantID, day string) ([]model.Rating, error)
	SubmitRating(ctx context.Context, participantID, day, level string, actor model.Actor) (service.SubmitResult, error)
	RemoveRating(ctx context.Context, participantID, day string, actor model.Actor) (service.RemoveResult, error)
}

// AssessmentsHandler handles /assessments requests.
type AssessmentsHandler struct {
	deps AssessmentsDependencies
	log  logger.Logger
}

// NewAssessmentsHandler creates a new assessments handler.
func NewAssessmentsHandler(deps AssessmentsDependencies) *AssessmentsHandler {
	return &AssessmentsHandler{deps: deps}
}

type submitRequest struct {
	ParticipantID string `json:"participantId"`
	Day           string `json:"day"`
	Level         string `json:"level"`
}

type submitResponse struct {
	Success bool `json:"success"`
	service.SubmitResult
}

type removeResponse struct {
	Success bool `json:"success"`
	service.RemoveResult
}

// HandleList handles GET /assessments?participantId=&day= requests.
func (h *AssessmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rs, err := h.deps.ListRatings(r.Context(), q.Get("participantId"), q.Get("day"))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.list_assessments", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.Rating{"assessments": rs})
}

// HandleSubmit handles POST /assessments requests.
func (h *AssessmentsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_assessment"
	var req submitRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	res, err := h.deps.SubmitRating(r.Context(), req.ParticipantID, req.Day, req.Level, actor(r))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Success: true, SubmitResult: res})
}

// HandleRemove handles DELETE /assessments?participantId=&day= requests.
func (h *AssessmentsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.deps.RemoveRating(r.Context(), q.Get("participantId"), q.Get("day"), actor(r))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.remove_assessment", err))
		return
	}
	writeJSON(w, http.StatusOK, removeResponse{Success: true, RemoveResult: res})
}
