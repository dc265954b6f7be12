package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. StreamID is the identity the chat/video
// provider knows this user by.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	ProfileImage string             `json:"profileImage" bson:"profileImage"`
	StreamID     string             `json:"streamId" bson:"streamId"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public slice of a user embedded in session views.
type UserSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	ProfileImage string             `json:"profileImage"`
	StreamID     string             `json:"streamId"`
}

// Summary projects a User down to its public fields.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		StreamID:     u.StreamID,
	}
}
