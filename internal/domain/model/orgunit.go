package model

import "time"

// OrgUnit (VBU) groups participants. ID is derived from Name.
type OrgUnit struct {
	ID        string    `json:"vbuId" dynamodbav:"vbuId" bson:"vbuId"`
	Name      string    `json:"name" dynamodbav:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt" bson:"createdAt"`
}
