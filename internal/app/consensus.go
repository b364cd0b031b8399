package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/mindset-tracker/internal/domain/consensus"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/types"
	"github.com/okian/mindset-tracker/pkg/metrics"
)

// ConsensusBoard returns every participant with that day's consensus,
// movement against the previous day, and the ratings behind it. Consensus
// is recomputed from the stored ratings on every call.
func (s *Service) ConsensusBoard(ctx context.Context, day string) (types.Board, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return types.Board{}, invalid("day required")
	}
	prevDay, hasPrev := consensus.PreviousDay(day)

	var (
		participants []model.Participant
		today        []model.Rating
		before       []model.Rating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participants.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.ratings.ListByDay(gctx, day)
		return err
	})
	if hasPrev {
		g.Go(func() error {
			var err error
			before, err = s.ratings.ListByDay(gctx, prevDay)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return types.Board{}, storage("load consensus board", err)
	}
	metrics.UpdateTotalParticipants(len(participants))

	todayBy := groupByParticipant(today)
	beforeBy := groupByParticipant(before)

	rows := make([]types.ConsensusRow, 0, len(participants))
	for _, p := range participants {
		current := s.engine.Compute(todayBy[p.ID])
		previous := s.engine.Compute(beforeBy[p.ID])
		metrics.RecordConsensus(current != nil)

		ratings := todayBy[p.ID]
		if ratings == nil {
			ratings = []model.Rating{}
		}
		rows = append(rows, types.ConsensusRow{
			Participant: foldUnit(p),
			Consensus:   current,
			Movement:    consensus.Compare(current, previous),
			Assessments: ratings,
		})
	}

	return types.Board{Day: day, PreviousDay: prevDay, Rows: rows}, nil
}

// ParticipantConsensus computes consensus and movement for one participant
// on one day.
func (s *Service) ParticipantConsensus(ctx context.Context, participantID, day string) (types.ParticipantConsensus, error) {
	participantID = model.NormalizeParticipantID(participantID)
	day = strings.TrimSpace(day)
	if participantID == "" || day == "" {
		return types.ParticipantConsensus{}, invalid("participantId and day required")
	}
	prevDay, hasPrev := consensus.PreviousDay(day)

	var today, before []model.Rating
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = s.ratings.ListByParticipant(gctx, participantID, day)
		return err
	})
	if hasPrev {
		g.Go(func() error {
			var err error
			before, err = s.ratings.ListByParticipant(gctx, participantID, prevDay)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return types.ParticipantConsensus{}, storage("load ratings", err)
	}

	current := s.engine.Compute(today)
	previous := s.engine.Compute(before)
	metrics.RecordConsensus(current != nil)

	return types.ParticipantConsensus{
		ParticipantID: participantID,
		Day:           day,
		Current:       current,
		Previous:      previous,
		Movement:      consensus.Compare(current, previous),
	}, nil
}

func groupByParticipant(rs []model.Rating) map[string][]model.Rating {
	out := make(map[string][]model.Rating)
	for _, r := range rs {
		out[r.ParticipantID] = append(out[r.ParticipantID], r)
	}
	return out
}
