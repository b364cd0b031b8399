package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/mindset-tracker/internal/adapters/repository"
	"github.com/okian/mindset-tracker/internal/domain/dedupe"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/scale"
	"github.com/okian/mindset-tracker/pkg/logger"
	"github.com/okian/mindset-tracker/pkg/metrics"
)

// ParticipantInput is the caller-supplied shape of a new participant.
type ParticipantInput struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	VBU             string `json:"vbu"`
	Track           string `json:"track"`
	AIMaturityLevel *int   `json:"aiMaturityLevel,omitempty"`
}

// ImportResult reports a bulk import.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
}

// ListParticipants returns the roster with the legacy unit tag folded into
// the current one.
func (s *Service) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	ps, err := s.participants.List(ctx)
	if err != nil {
		return nil, storage("list participants", err)
	}
	for i := range ps {
		ps[i] = foldUnit(ps[i])
	}
	metrics.UpdateTotalParticipants(len(ps))
	return ps, nil
}

// GetParticipant returns one participant or ErrNotFound.
func (s *Service) GetParticipant(ctx context.Context, id string) (model.Participant, error) {
	p, err := s.participants.Get(ctx, model.NormalizeParticipantID(id))
	if errors.Is(err, repository.ErrNotFound) {
		return model.Participant{}, ErrNotFound
	}
	if err != nil {
		return model.Participant{}, storage("get participant", err)
	}
	return foldUnit(p), nil
}

// AddParticipant writes a single participant, replacing any with the same
// email.
func (s *Service) AddParticipant(ctx context.Context, in ParticipantInput) (model.Participant, error) {
	p, err := s.buildParticipant(in)
	if err != nil {
		return model.Participant{}, err
	}
	if err := s.participants.Put(ctx, p); err != nil {
		return model.Participant{}, storage("put participant", err)
	}
	s.logger.Info(ctx, "participant added", logger.String("participant_id", p.ID))
	return p, nil
}

// DeleteParticipant removes a participant. Their ratings, notes and audit
// history are kept.
func (s *Service) DeleteParticipant(ctx context.Context, id string) error {
	id = model.NormalizeParticipantID(id)
	if id == "" {
		return invalid("email required")
	}
	if err := s.participants.Delete(ctx, id); err != nil {
		return storage("delete participant", err)
	}
	s.logger.Info(ctx, "participant deleted", logger.String("participant_id", id))
	return nil
}

// ImportParticipants validates every row, collapses duplicate emails
// (first occurrence wins) and writes the rest in fixed-size batches, one
// batch at a time. A failed batch stops the import; earlier batches stay
// written and are counted in the result.
func (s *Service) ImportParticipants(ctx context.Context, in []ParticipantInput) (ImportResult, error) {
	if len(in) == 0 {
		return ImportResult{}, invalid("participants array required")
	}

	ps := make([]model.Participant, 0, len(in))
	for i, row := range in {
		p, err := s.buildParticipant(row)
		if err != nil {
			return ImportResult{}, invalid("row %d: %s", i+1, Reason(err))
		}
		ps = append(ps, p)
	}
	ps, dropped := dedupe.FirstWins(ps, func(p model.Participant) string { return p.ID })

	res := ImportResult{Duplicates: dropped}
	for start := 0; start < len(ps); start += s.batchSize {
		end := start + s.batchSize
		if end > len(ps) {
			end = len(ps)
		}
		if err := s.participants.PutBatch(ctx, ps[start:end]); err != nil {
			s.logger.Error(ctx, "import batch failed",
				logger.Int("batch_start", start),
				logger.Int("imported", res.Imported),
				logger.Error(err))
			return res, storage("import batch", err)
		}
		res.Imported += end - start
		metrics.RecordImportBatch(end - start)
	}

	s.logger.Info(ctx, "participants imported",
		logger.Int("imported", res.Imported),
		logger.Int("duplicates", res.Duplicates))
	return res, nil
}

func (s *Service) buildParticipant(in ParticipantInput) (model.Participant, error) {
	id := model.NormalizeParticipantID(in.Email)
	name := strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return model.Participant{}, invalid("email and name required")
	}
	track := strings.TrimSpace(in.Track)
	if track == "" {
		track = model.DefaultTrack
	}
	p := model.Participant{
		ID:        id,
		Name:      name,
		Email:     id,
		VBU:       strings.TrimSpace(in.VBU),
		Track:     track,
		CreatedAt: s.now().UTC(),
	}
	if in.AIMaturityLevel != nil {
		m, err := scale.ParseMaturity(*in.AIMaturityLevel)
		if err != nil {
			return model.Participant{}, invalid("%v", err)
		}
		lvl := int(m)
		p.AIMaturityLevel = &lvl
	}
	return p, nil
}

// foldUnit presents the legacy unit tag as the current one.
func foldUnit(p model.Participant) model.Participant {
	p.VBU = p.Unit()
	p.LegacyVBU = ""
	return p
}
