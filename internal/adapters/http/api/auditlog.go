package api

import (
	"context"
	"net/http"

	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// AuditDependencies defines the audit feed read.
type AuditDependencies interface {
	AuditLog(ctx context.Context, participantID string) ([]model.AuditEntry, error)
}

// AuditHandler handles /audit-log requests.
type AuditHandler struct {
	deps AuditDependencies
	log  logger.Logger
}

// NewAuditHandler creates a new audit log handler.
func NewAuditHandler(deps AuditDependencies) *AuditHandler {
	return &AuditHandler{deps: deps}
}

// HandleList handles GET /audit-log?participantId= requests. Without a
// participant the whole feed is returned, newest first.
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.AuditLog(r.Context(), r.URL.Query().Get("participantId"))
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.audit_log", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.AuditEntry{"entries": entries})
}
