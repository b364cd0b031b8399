package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/mindset-tracker/internal/adapters/repository"
	"github.com/okian/mindset-tracker/internal/adapters/worker"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/orgunit"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// RenameResult reports an org unit rename and its cascade to participants.
type RenameResult struct {
	Unit   model.OrgUnit `json:"vbu"`
	Report worker.Report `json:"participants"`
}

// ListOrgUnits returns every org unit sorted by name.
func (s *Service) ListOrgUnits(ctx context.Context) ([]model.OrgUnit, error) {
	us, err := s.units.List(ctx)
	if err != nil {
		return nil, storage("list org units", err)
	}
	return us, nil
}

// AddOrgUnit creates a unit whose id is derived from name.
func (s *Service) AddOrgUnit(ctx context.Context, name string) (model.OrgUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.OrgUnit{}, invalid("name required")
	}
	id, err := orgunit.ID(name)
	if err != nil {
		return model.OrgUnit{}, invalid("%v", err)
	}
	u := model.OrgUnit{ID: id, Name: name, CreatedAt: s.now().UTC()}
	if err := s.units.Put(ctx, u); err != nil {
		return model.OrgUnit{}, storage("put org unit", err)
	}
	return u, nil
}

// RenameOrgUnit gives unit id a new name, re-keying it when the derived id
// changes, then retags every participant carrying the old name.
//
// oldName may be empty, in which case the stored name is used. The cascade
// is not transactional: each participant is updated on its own and the
// report lists which updates failed.
func (s *Service) RenameOrgUnit(ctx context.Context, id, newName, oldName string) (RenameResult, error) {
	id = strings.TrimSpace(id)
	newName = strings.TrimSpace(newName)
	oldName = strings.TrimSpace(oldName)
	if id == "" {
		return RenameResult{}, invalid("vbuId required")
	}
	if newName == "" {
		return RenameResult{}, invalid("name required")
	}
	newID, err := orgunit.ID(newName)
	if err != nil {
		return RenameResult{}, invalid("%v", err)
	}

	createdAt := s.now().UTC()
	existing, err := s.units.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return RenameResult{}, storage("get org unit", err)
	default:
		createdAt = existing.CreatedAt
		if oldName == "" {
			oldName = existing.Name
		}
	}

	if newID != id {
		if err := s.units.Delete(ctx, id); err != nil {
			return RenameResult{}, storage("delete org unit", err)
		}
	}
	u := model.OrgUnit{ID: newID, Name: newName, CreatedAt: createdAt}
	if err := s.units.Put(ctx, u); err != nil {
		return RenameResult{}, storage("put org unit", err)
	}

	res := RenameResult{Unit: u, Report: worker.Report{Updated: []string{}, Failed: []worker.Failure{}}}
	if oldName == "" || oldName == newName {
		return res, nil
	}

	ps, err := s.participants.List(ctx)
	if err != nil {
		return res, storage("list participants", err)
	}
	var ids []string
	for _, p := range ps {
		if p.InUnit(oldName) {
			ids = append(ids, p.ID)
		}
	}

	pool := worker.NewPool(s.renameWorkers,
		func(ctx context.Context, pid string) error {
			return s.participants.SetUnit(ctx, pid, newName)
		},
		worker.WithName("org-unit-rename"),
		worker.WithLogger(s.logger),
	)
	res.Report = pool.Run(ctx, ids)

	s.logger.Info(ctx, "org unit renamed",
		logger.String("from", oldName),
		logger.String("to", newName),
		logger.Int("matched", res.Report.Matched),
		logger.Int("failed", len(res.Report.Failed)))
	return res, nil
}

// DeleteOrgUnit removes a unit. Participants keep their tag.
func (s *Service) DeleteOrgUnit(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("vbuId required")
	}
	if err := s.units.Delete(ctx, id); err != nil {
		return storage("delete org unit", err)
	}
	return nil
}
