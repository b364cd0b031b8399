package model

import "time"

// AuditAction names the kind of change an audit entry describes.
type AuditAction string

// Audit actions.
const (
	ActionCreate        AuditAction = "create"
	ActionUpdate        AuditAction = "update"
	ActionDelete        AuditAction = "delete"
	ActionAILevelUpdate AuditAction = "ai-level-update"
)

// DayAI stands in for the day on maturity-level entries.
const DayAI = "AI"

// AuditEntry is an immutable record of one change. EntryKey is the sort
// key: the timestamp followed by a unique suffix, so entries written in the
// same instant never collide and still order by time.
type AuditEntry struct {
	ParticipantID string      `json:"participantId" dynamodbav:"participantId" bson:"participantId"`
	EntryKey      string      `json:"entryKey" dynamodbav:"entryKey" bson:"entryKey"`
	Timestamp     time.Time   `json:"timestamp" dynamodbav:"timestamp" bson:"timestamp"`
	Action        AuditAction `json:"action" dynamodbav:"action" bson:"action"`
	ActorID       string      `json:"assessorId" dynamodbav:"assessorId" bson:"assessorId"`
	ActorName     string      `json:"assessorName" dynamodbav:"assessorName" bson:"assessorName"`
	Day           string      `json:"day" dynamodbav:"day" bson:"day"`
	PreviousLevel *string     `json:"previousLevel" dynamodbav:"previousLevel" bson:"previousLevel"`
	NewLevel      *string     `json:"newLevel" dynamodbav:"newLevel" bson:"newLevel"`
}

// LevelRef returns a pointer to s, or nil for the empty string.
func LevelRef(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// entryKeyLayout has fixed width so keys sort lexically in time order.
const entryKeyLayout = "2006-01-02T15:04:05.000000000Z"

// EntryKey builds a sort key from ts and a unique suffix.
func EntryKey(ts time.Time, suffix string) string {
	return ts.UTC().Format(entryKeyLayout) + "#" + suffix
}
