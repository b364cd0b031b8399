// Package audit appends immutable change records for ratings and maturity
// levels.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
	"github.com/okian/mindset-tracker/pkg/metrics"
)

// ErrMissingParticipant is returned when a change names no participant.
var ErrMissingParticipant = errors.New("audit change has no participant")

// Sink persists audit entries. Implementations must not overwrite an
// existing entry.
type Sink interface {
	Append(ctx context.Context, e model.AuditEntry) error
}

// Change describes one state change to be recorded.
type Change struct {
	ParticipantID string
	Action        model.AuditAction
	Actor         model.Actor
	Day           string
	PreviousLevel *string
	NewLevel      *string
}

// Recorder turns changes into audit entries and appends them to a Sink.
// It never reads back what it wrote.
type Recorder struct {
	sink  Sink
	now   func() time.Time
	newID func() string
	log   logger.Logger
}

// NewRecorder creates a Recorder writing to sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:  sink,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends exactly one entry for c and returns it.
func (r *Recorder) Record(ctx context.Context, c Change) (model.AuditEntry, error) {
	if c.ParticipantID == "" {
		return model.AuditEntry{}, ErrMissingParticipant
	}

	ts := r.now().UTC()
	entry := model.AuditEntry{
		ParticipantID: c.ParticipantID,
		EntryKey:      model.EntryKey(ts, r.newID()),
		Timestamp:     ts,
		Action:        c.Action,
		ActorID:       c.Actor.ID,
		ActorName:     c.Actor.Name,
		Day:           c.Day,
		PreviousLevel: c.PreviousLevel,
		NewLevel:      c.NewLevel,
	}

	if err := r.sink.Append(ctx, entry); err != nil {
		metrics.RecordAuditFailure()
		r.log.Error(ctx, "audit append failed",
			logger.String("participant_id", c.ParticipantID),
			logger.String("action", string(c.Action)),
			logger.Error(err))
		return model.AuditEntry{}, fmt.Errorf("append audit entry: %w", err)
	}

	metrics.RecordAuditEntry(string(c.Action))
	r.log.Info(ctx, "audit",
		logger.Bool("audit", true),
		logger.String("participant_id", entry.ParticipantID),
		logger.String("action", string(entry.Action)),
		logger.String("actor_id", entry.ActorID),
		logger.String("day", entry.Day),
		logger.String("previous_level", deref(entry.PreviousLevel)),
		logger.String("new_level", deref(entry.NewLevel)))

	return entry, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
