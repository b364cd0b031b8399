package api

import (
	"context"
	"net/http"

	"github.com/okian/mindset-tracker/internal/adapters/worker"
	service "github.com/okian/mindset-tracker/internal/app"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// OrgUnitsDependencies defines the org unit operations.
type OrgUnitsDependencies interface {
	ListOrgUnits(ctx context.Context) ([]model.OrgUnit, error)
	AddOrgUnit(ctx context.Context, name string) (model.OrgUnit, error)
	RenameOrgUnit(ctx context.Context, id, newName, oldName string) (service.RenameResult, error)
	DeleteOrgUnit(ctx context.Context, id string) error
}

// OrgUnitsHandler handles /vbus requests.
type OrgUnitsHandler struct {
	deps OrgUnitsDependencies
	log  logger.Logger
}

// NewOrgUnitsHandler creates a new org unit handler.
func NewOrgUnitsHandler(deps OrgUnitsDependencies) *OrgUnitsHandler {
	return &OrgUnitsHandler{deps: deps}
}

type unitRequest struct {
	Name    string `json:"name"`
	OldName string `json:"oldName"`
}

type unitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"vbuId"`
	Name    string `json:"name"`
}

type renameResponse struct {
	Success      bool          `json:"success"`
	ID           string        `json:"vbuId"`
	Name         string        `json:"name"`
	Participants worker.Report `json:"participants"`
}

// HandleList handles GET /vbus requests.
func (h *OrgUnitsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	us, err := h.deps.ListOrgUnits(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap("api.list_vbus", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]model.OrgUnit{"vbus": us})
}

// HandleAdd handles POST /vbus requests.
func (h *OrgUnitsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_vbu"
	var req unitRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	u, err := h.deps.AddOrgUnit(r.Context(), req.Name)
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, unitResponse{Success: true, ID: u.ID, Name: u.Name})
}

// HandleRename handles PUT /vbus/{vbuId} requests. Participants that could
// not be retagged are listed in the response; the request still succeeds.
func (h *OrgUnitsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename_vbu"
	var req unitRequest
	if err := decodeBody(r, w, op, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	id, err := pathParam(r, op, "vbuId")
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	res, err := h.deps.RenameOrgUnit(r.Context(), id, req.Name, req.OldName)
	if err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, renameResponse{
		Success:      true,
		ID:           res.Unit.ID,
		Name:         res.Unit.Name,
		Participants: res.Report,
	})
}

// HandleDelete handles DELETE /vbus/{vbuId} requests.
func (h *OrgUnitsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_vbu"
	id, err := pathParam(r, op, "vbuId")
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if err := h.deps.DeleteOrgUnit(r.Context(), id); err != nil {
		writeError(r.Context(), w, h.log, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
