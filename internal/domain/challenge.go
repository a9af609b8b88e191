package domain

import "time"

// Challenge is one time-boxed commitment. Terminal records keep started=false
// with exactly one of won/lost set; a new challenge always gets a new record.
type Challenge struct {
	ChallengeID  string     `json:"id" dynamodbav:"challenge_id"`
	ChallengerID string     `json:"challenger" dynamodbav:"challenger_id"`
	Started      bool       `json:"started" dynamodbav:"started"`
	Won          bool       `json:"won" dynamodbav:"won"`
	Lost         bool       `json:"lost" dynamodbav:"lost"`
	StartedAt    time.Time  `json:"startedAt" dynamodbav:"started_at"`
	EndedAt      time.Time  `json:"endedAt" dynamodbav:"ended_at"`
	RelapseAt    *time.Time `json:"relapseAt" dynamodbav:"relapse_at"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

type StartChallengeRequest struct {
	// EndedAt is the target deadline in epoch milliseconds. 0 is the epoch,
	// not a missing value.
	EndedAt *int64 `json:"endedAt" validate:"required,min=0"`
}
