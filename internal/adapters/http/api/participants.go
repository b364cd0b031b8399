package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/mindset-tracker/internal/app"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// ParticipantsDependencies defines the roster operations.
type ParticipantsDependencies interface {
	ListParticipants(ctx context.Context) ([]model.Participant, error)
	AddParticipant(ctx context.Context, in service.ParticipantInput) (model.Participant, error)
	DeleteParticipant(ctx context.Context, id string) error
	ImportParticipants(ctx context.Context, in []service.ParticipantInput) (service.ImportResult, error)
	UpdateMaturityLevel(ctx context.Context, participantID string, level int, actor model.Actor) (service.MaturityResult, error)
}

// ParticipantsHandler handles /participants requests.
type ParticipantsHandler struct {
	deps ParticipantsDependencies
	log  logger.Logger
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps ParticipantsDependencies) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps}
}

type participantsResponse struct {
	Participants []model.Participant `json:"participants"`
}

type maturityRequest struct {
	ParticipantID string          `json:"participantId"`
	AILevel       json.RawMessage `json:"aiLevel"`
}

type importRequest struct {
	Participants []service.ParticipantInput `json:"participants"`
}

type importResponse struct {
	Success    bool `json:"success"`
	Imported   int  `json:"imported"`
	Duplicates int  `json:"duplicates"`
}

// HandleList handles GET /participants requests.
func (h *ParticipantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.deps.ListParticipants(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.list_participants", err))
		return
	}
	writeJSON(w, http.StatusOK, participantsResponse{Participants: ps})
}

// HandleAdd handles POST /participants requests.
func (h *ParticipantsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_participant"
	var req service.ParticipantInput
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if _, err := h.deps.AddParticipant(r.Context(), req); err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleDelete handles DELETE /participants/{id} requests.
func (h *ParticipantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_participant"
	id, err := pathParam(r, op, "id")
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if err := h.deps.DeleteParticipant(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// HandleMaturity handles POST /participants/ai-level requests. aiLevel may
// arrive as a number or a numeric string.
func (h *ParticipantsHandler) HandleMaturity(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_ai_level"
	var req maturityRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	level, err := parseLevel(req.AILevel)
	if err != nil {
		writeError(r.Context(), w, h.log, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.UpdateMaturityLevel(r.Context(), req.ParticipantID, level, actor(r))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		service.MaturityResult
	}{Success: true, MaturityResult: res})
}

// HandleImport handles POST /participants/import requests.
func (h *ParticipantsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_participants"
	var req importRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	res, err := h.deps.ImportParticipants(r.Context(), req.Participants)
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Success: true, Imported: res.Imported, Duplicates: res.Duplicates})
}

// parseLevel accepts a JSON number or numeric string holding a whole
// value, so 2, 2.0 and "2" all read as 2.
func parseLevel(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errAILevelRequired
	}
	var text string
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		text = num.String()
	} else if err := json.Unmarshal(raw, &text); err != nil {
		return 0, errAILevelType
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errAILevelType
	}
	return int(f), nil
}
