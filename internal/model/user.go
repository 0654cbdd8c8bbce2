package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a learner account in the system.
// PasswordHash is never exposed in JSON and never logged.
type User struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	FullName         string               `json:"fullName" bson:"fullName"`
	Email            string               `json:"email" bson:"email"`
	PasswordHash     string               `json:"-" bson:"passwordHash"`
	Bio              string               `json:"bio" bson:"bio"`
	ProfilePic       string               `json:"profilePic" bson:"profilePic"`
	NativeLanguage   string               `json:"nativeLanguage" bson:"nativeLanguage"`
	LearningLanguage string               `json:"learningLanguage" bson:"learningLanguage"`
	Location         string               `json:"location" bson:"location"`
	IsOnboarded      bool                 `json:"isOnboarded" bson:"isOnboarded"`
	Friends          []primitive.ObjectID `json:"friends" bson:"friends"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Profile is the subset of User fields shown to other users
// (friend lists, recommendations, populated friend requests).
type Profile struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	FullName         string             `json:"fullName" bson:"fullName"`
	ProfilePic       string             `json:"profilePic" bson:"profilePic"`
	Bio              string             `json:"bio" bson:"bio"`
	NativeLanguage   string             `json:"nativeLanguage" bson:"nativeLanguage"`
	LearningLanguage string             `json:"learningLanguage" bson:"learningLanguage"`
	Location         string             `json:"location" bson:"location"`
	IsOnboarded      bool               `json:"isOnboarded" bson:"isOnboarded"`
}

// AsProfile trims a User down to its public profile.
func (u *User) AsProfile() Profile {
	return Profile{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		Bio:              u.Bio,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		IsOnboarded:      u.IsOnboarded,
	}
}
