package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/mindset-tracker/internal/adapters/repository"
	"github.com/okian/mindset-tracker/internal/domain/audit"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/scale"
	"github.com/okian/mindset-tracker/pkg/logger"
	"github.com/okian/mindset-tracker/pkg/metrics"
)

// SubmitResult reports the outcome of SubmitRating.
type SubmitResult struct {
	Action model.AuditAction `json:"action"`
	Rating model.Rating      `json:"assessment"`
	Entry  model.AuditEntry  `json:"auditEntry"`
}

// RemoveResult reports the outcome of RemoveRating. Entry is nil for a no-op.
type RemoveResult struct {
	Deleted bool              `json:"deleted"`
	Entry   *model.AuditEntry `json:"auditEntry,omitempty"`
}

// MaturityResult reports the outcome of UpdateMaturityLevel.
type MaturityResult struct {
	Entry model.AuditEntry `json:"auditEntry"`
}

// SubmitRating writes the actor's rating into the (participant, day, actor)
// slot and records a create or update audit entry.
//
// The steps run in order: read the previous rating, write the new one, then
// append the audit entry. A failure after the write leaves the rating in
// place without its audit entry.
func (s *Service) SubmitRating(ctx context.Context, participantID, day, level string, actor model.Actor) (SubmitResult, error) {
	participantID = model.NormalizeParticipantID(participantID)
	day = strings.TrimSpace(day)
	if participantID == "" || day == "" || strings.TrimSpace(level) == "" {
		return SubmitResult{}, invalid("participantId, day, and level required")
	}
	lvl, err := scale.ParseLevel(level)
	if err != nil {
		return SubmitResult{}, invalid("%v", err)
	}

	prev := s.previousRating(ctx, participantID, day, actor.ID)

	r := model.Rating{
		ParticipantID: participantID,
		Day:           day,
		AssessorID:    actor.ID,
		AssessorName:  actor.Name,
		Level:         lvl,
		Timestamp:     s.now().UTC(),
	}
	if err := s.ratings.Put(ctx, r); err != nil {
		return SubmitResult{}, storage("put rating", err)
	}
	r.DayAssessor = model.SlotKey(day, actor.ID)

	action := model.ActionCreate
	if prev != nil {
		action = model.ActionUpdate
	}
	metrics.RecordRatingWritten(string(action))

	entry, err := s.recorder.Record(ctx, audit.Change{
		ParticipantID: participantID,
		Action:        action,
		Actor:         actor,
		Day:           day,
		PreviousLevel: prev,
		NewLevel:      model.LevelRef(string(lvl)),
	})
	if err != nil {
		return SubmitResult{}, storage("record audit", err)
	}

	return SubmitResult{Action: action, Rating: r, Entry: entry}, nil
}

// RemoveRating deletes the actor's rating for (participant, day). Removing
// a rating that does not exist succeeds without writing an audit entry.
func (s *Service) RemoveRating(ctx context.Context, participantID, day string, actor model.Actor) (RemoveResult, error) {
	participantID = model.NormalizeParticipantID(participantID)
	day = strings.TrimSpace(day)
	if participantID == "" || day == "" {
		return RemoveResult{}, invalid("participantId and day required")
	}

	existing, err := s.ratings.Get(ctx, participantID, day, actor.ID)
	var prev *string
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return RemoveResult{Deleted: false}, nil
	case err != nil:
		s.previousLookupFailed(ctx, participantID, day, err)
	default:
		prev = model.LevelRef(string(existing.Level))
	}

	if err := s.ratings.Delete(ctx, participantID, day, actor.ID); err != nil {
		return RemoveResult{}, storage("delete rating", err)
	}
	metrics.RecordRatingWritten(string(model.ActionDelete))

	entry, err := s.recorder.Record(ctx, audit.Change{
		ParticipantID: participantID,
		Action:        model.ActionDelete,
		Actor:         actor,
		Day:           day,
		PreviousLevel: prev,
		NewLevel:      nil,
	})
	if err != nil {
		return RemoveResult{}, storage("record audit", err)
	}
	return RemoveResult{Deleted: true, Entry: &entry}, nil
}

// UpdateMaturityLevel sets a participant's AI maturity level and records an
// audit entry under the "AI" day sentinel.
func (s *Service) UpdateMaturityLevel(ctx context.Context, participantID string, level int, actor model.Actor) (MaturityResult, error) {
	participantID = model.NormalizeParticipantID(participantID)
	if participantID == "" {
		return MaturityResult{}, invalid("participantId and aiLevel required")
	}
	m, err := scale.ParseMaturity(level)
	if err != nil {
		return MaturityResult{}, invalid("%v", err)
	}

	var prev *string
	p, err := s.participants.Get(ctx, participantID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		s.previousLookupFailed(ctx, participantID, model.DayAI, err)
	case p.AIMaturityLevel != nil:
		prev = model.LevelRef(scale.Maturity(*p.AIMaturityLevel).String())
	}

	if err := s.participants.SetMaturity(ctx, participantID, int(m)); err != nil {
		return MaturityResult{}, storage("set maturity level", err)
	}

	entry, err := s.recorder.Record(ctx, audit.Change{
		ParticipantID: participantID,
		Action:        model.ActionAILevelUpdate,
		Actor:         actor,
		Day:           model.DayAI,
		PreviousLevel: prev,
		NewLevel:      model.LevelRef(m.String()),
	})
	if err != nil {
		return MaturityResult{}, storage("record audit", err)
	}
	return MaturityResult{Entry: entry}, nil
}

// ListRatings returns a participant's ratings, restricted to day if given.
func (s *Service) ListRatings(ctx context.Context, participantID, day string) ([]model.Rating, error) {
	participantID = model.NormalizeParticipantID(participantID)
	if participantID == "" {
		return nil, invalid("participantId required")
	}
	rs, err := s.ratings.ListByParticipant(ctx, participantID, strings.TrimSpace(day))
	if err != nil {
		return nil, storage("list ratings", err)
	}
	return rs, nil
}

// previousRating returns the level currently in the slot, or nil when the
// slot is empty or the lookup fails.
func (s *Service) previousRating(ctx context.Context, participantID, day, assessorID string) *string {
	r, err := s.ratings.Get(ctx, participantID, day, assessorID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		s.previousLookupFailed(ctx, participantID, day, err)
		return nil
	}
	return model.LevelRef(string(r.Level))
}

func (s *Service) previousLookupFailed(ctx context.Context, participantID, day string, err error) {
	metrics.RecordPreviousLookupError()
	s.logger.Warn(ctx, "previous value lookup failed, treating as unknown",
		logger.String("participant_id", participantID),
		logger.String("day", day),
		logger.Error(err))
}
