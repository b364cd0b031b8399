package model

import (
	"time"

	"github.com/okian/mindset-tracker/internal/domain/scale"
)

const slotSeparator = "#"

// Rating is one assessor's judgment of one participant on one day. The
// triple (ParticipantID, Day, AssessorID) identifies the slot; DayAssessor
// is its sort-key encoding.
type Rating struct {
	ParticipantID string      `json:"participantId" dynamodbav:"participantId" bson:"participantId"`
	DayAssessor   string      `json:"dayAssessor" dynamodbav:"dayAssessor" bson:"dayAssessor"`
	Day           string      `json:"day" dynamodbav:"day" bson:"day"`
	AssessorID    string      `json:"assessorId" dynamodbav:"assessorId" bson:"assessorId"`
	AssessorName  string      `json:"assessorName" dynamodbav:"assessorName" bson:"assessorName"`
	Level         scale.Level `json:"level" dynamodbav:"level" bson:"level"`
	Timestamp     time.Time   `json:"timestamp" dynamodbav:"timestamp" bson:"timestamp"`
}

// SlotKey returns the sort key of the (day, assessor) slot.
func SlotKey(day, assessorID string) string {
	return day + slotSeparator + assessorID
}

// DayPrefix returns the sort-key prefix shared by every slot of a day.
func DayPrefix(day string) string {
	return day + slotSeparator
}
