package model

import "time"

// Note is a free-text annotation on a participant.
type Note struct {
	ParticipantID string    `json:"participantId" dynamodbav:"participantId" bson:"participantId"`
	EntryKey      string    `json:"entryKey" dynamodbav:"entryKey" bson:"entryKey"`
	Timestamp     time.Time `json:"timestamp" dynamodbav:"timestamp" bson:"timestamp"`
	AuthorID      string    `json:"authorId" dynamodbav:"authorId" bson:"authorId"`
	AuthorName    string    `json:"authorName" dynamodbav:"authorName" bson:"authorName"`
	Text          string    `json:"note" dynamodbav:"note" bson:"note"`
}
