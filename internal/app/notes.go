package service

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// maxNoteLength bounds a note after sanitising.
const maxNoteLength = 4000

// AddNote appends a note by actor. Markup is stripped before storing and
// the remaining text is kept as plain text, entities decoded.
func (s *Service) AddNote(ctx context.Context, participantID, text string, actor model.Actor) (model.Note, error) {
	participantID = model.NormalizeParticipantID(participantID)
	clean := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(text)))
	if participantID == "" || clean == "" {
		return model.Note{}, invalid("participantId and note required")
	}
	if utf8.RuneCountInString(clean) > maxNoteLength {
		return model.Note{}, invalid("note exceeds %d characters", maxNoteLength)
	}

	ts := s.now().UTC()
	n := model.Note{
		ParticipantID: participantID,
		EntryKey:      model.EntryKey(ts, s.newID()),
		Timestamp:     ts,
		AuthorID:      actor.ID,
		AuthorName:    actor.Name,
		Text:          clean,
	}
	if err := s.notes.Add(ctx, n); err != nil {
		return model.Note{}, storage("add note", err)
	}
	s.logger.Debug(ctx, "note added",
		logger.String("participant_id", participantID),
		logger.String("author_id", actor.ID))
	return n, nil
}

// ListNotes returns a participant's notes newest first.
func (s *Service) ListNotes(ctx context.Context, participantID string) ([]model.Note, error) {
	participantID = model.NormalizeParticipantID(participantID)
	if participantID == "" {
		return nil, invalid("participantId required")
	}
	ns, err := s.notes.List(ctx, participantID)
	if err != nil {
		return nil, storage("list notes", err)
	}
	return ns, nil
}
