package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request statuses.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
)

// FriendRequest links a sender and a recipient until accepted.
type FriendRequest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PopulatedFriendRequest carries sender/recipient profiles for list endpoints.
type PopulatedFriendRequest struct {
	ID        primitive.ObjectID `json:"id"`
	Sender    Profile            `json:"sender"`
	Recipient Profile            `json:"recipient"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}
