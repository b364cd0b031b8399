package api

import (
	"context"
	"net/http"

	"github.com/okian/mindset-tracker/internal/domain/types"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// ConsensusDependencies defines the consensus reads.
type ConsensusDependencies interface {
	ConsensusBoard(ctx context.Context, day string) (types.Board, error)
	ParticipantConsensus(ctx context.Context, participantID, day string) (types.ParticipantConsensus, error)
}

// ConsensusHandler handles /consensus requests.
type ConsensusHandler struct {
	deps ConsensusDependencies
	log  logger.Logger
}

// NewConsensusHandler creates a new consensus handler.
func NewConsensusHandler(deps ConsensusDependencies) *ConsensusHandler {
	return &ConsensusHandler{deps: deps}
}

// HandleBoard handles GET /consensus?day= requests.
func (h *ConsensusHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.deps.ConsensusBoard(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.consensus_board", err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleParticipant handles GET /consensus/{participantId}?day= requests.
func (h *ConsensusHandler) HandleParticipant(w http.ResponseWriter, r *http.Request) {
	const op = "api.participant_consensus"
	id, err := pathParam(r, op, "participantId")
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	pc, err := h.deps.ParticipantConsensus(r.Context(), id, r.URL.Query().Get("day"))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pc)
}
