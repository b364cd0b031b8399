// Package types contains read shapes shared by the service and HTTP layers.
package types

import (
	"github.com/okian/mindset-tracker/internal/domain/consensus"
	"github.com/okian/mindset-tracker/internal/domain/model"
)

// ConsensusRow is one participant's line on the consensus board. Consensus
// is nil when nobody rated the participant that day.
type ConsensusRow struct {
	model.Participant
	Consensus   *consensus.Consensus `json:"consensus"`
	Movement    consensus.Movement   `json:"movement"`
	Assessments []model.Rating       `json:"assessments"`
}

// Board is the consensus board for one day.
type Board struct {
	Day         string         `json:"day"`
	PreviousDay string         `json:"previousDay,omitempty"`
	Rows        []ConsensusRow `json:"consensus"`
}

// ParticipantConsensus is the consensus for a single participant and day.
type ParticipantConsensus struct {
	ParticipantID string               `json:"participantId"`
	Day           string               `json:"day"`
	Current       *consensus.Consensus `json:"consensus"`
	Previous      *consensus.Consensus `json:"previous"`
	Movement      consensus.Movement   `json:"movement"`
}
