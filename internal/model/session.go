package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Session is one interview pairing. Host and at most one participant share a
// chat channel and a video call, both keyed by CallID. Status only moves
// active -> completed.
type Session struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Problem     string              `json:"problem" bson:"problem"`
	Difficulty  Difficulty          `json:"difficulty" bson:"difficulty"`
	Host        primitive.ObjectID  `json:"host" bson:"host"`
	Participant *primitive.ObjectID `json:"participant,omitempty" bson:"participant"`
	CallID      string              `json:"callId" bson:"callId"`
	Status      SessionStatus       `json:"status" bson:"status"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// IsHost reports whether userID is the session host.
func (s *Session) IsHost(userID primitive.ObjectID) bool {
	return s.Host == userID
}

// HasParticipant reports whether userID currently occupies the guest seat.
func (s *Session) HasParticipant(userID primitive.ObjectID) bool {
	return s.Participant != nil && *s.Participant == userID
}

// SessionView is a Session with user identities resolved for clients.
type SessionView struct {
	ID          primitive.ObjectID `json:"id"`
	Problem     string             `json:"problem"`
	Difficulty  Difficulty         `json:"difficulty"`
	Host        *UserSummary       `json:"host"`
	Participant *UserSummary       `json:"participant,omitempty"`
	CallID      string             `json:"callId"`
	Status      SessionStatus      `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
