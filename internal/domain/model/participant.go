// Package model contains domain models passed between layers.
//
// Struct tags carry the attribute names used by every record store
// (json for the in-memory store, dynamodbav for DynamoDB, bson for MongoDB),
// so the three encodings of a record stay interchangeable.
package model

import (
	"strings"
	"time"
)

// DefaultTrack is assigned to participants imported without a track.
const DefaultTrack = "product"

// Participant is a person being assessed during the exercise.
type Participant struct {
	ID    string `json:"userId" dynamodbav:"userId" bson:"userId"`
	Name  string `json:"name" dynamodbav:"name" bson:"name"`
	Email string `json:"email" dynamodbav:"email" bson:"email"`
	VBU   string `json:"vbu" dynamodbav:"vbu" bson:"vbu"`
	Track string `json:"track" dynamodbav:"track" bson:"track"`
	// LegacyVBU is the unit tag written by older clients; read-only.
	LegacyVBU       string    `json:"vpiName,omitempty" dynamodbav:"vpiName,omitempty" bson:"vpiName,omitempty"`
	AIMaturityLevel *int      `json:"aiMaturityLevel,omitempty" dynamodbav:"aiMaturityLevel,omitempty" bson:"aiMaturityLevel,omitempty"`
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"createdAt" bson:"createdAt"`
}

// NormalizeParticipantID lower-cases and trims an email-shaped identifier.
func NormalizeParticipantID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Unit returns the participant's org unit, falling back to the legacy tag.
func (p Participant) Unit() string {
	if p.VBU != "" {
		return p.VBU
	}
	return p.LegacyVBU
}

// InUnit reports whether the participant is tagged with unit under either
// the current or the legacy attribute.
func (p Participant) InUnit(unit string) bool {
	return p.VBU == unit || p.LegacyVBU == unit
}
