package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"harlos/internal/model"
)

const friendRequestsCollection = "friend_requests"

// FriendRequestRepository defines persistence operations for friend requests.
type FriendRequestRepository interface {
	Create(ctx context.Context, req *model.FriendRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.FriendRequest, error)
	ExistsBetween(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	FindPendingForRecipient(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error)
	FindPendingBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error)
	FindAcceptedBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error)
}

type friendRequestRepository struct {
	coll *mongo.Collection
}

// NewFriendRequestRepository builds a Mongo-backed repository.
func NewFriendRequestRepository(db *mongo.Database) FriendRequestRepository {
	return &friendRequestRepository{coll: db.Collection(friendRequestsCollection)}
}

func (r *friendRequestRepository) Create(ctx context.Context, req *model.FriendRequest) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = model.FriendRequestPending
	}
	res, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = id
	}
	return nil
}

func (r *friendRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ExistsBetween reports whether any request links the two users, in either
// direction and regardless of status.
func (r *friendRequestRepository) ExistsBetween(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
	err := r.coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *friendRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	return err
}

func (r *friendRequestRepository) FindPendingForRecipient(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	return r.find(ctx, bson.M{"recipient": userID, "status": model.FriendRequestPending})
}

func (r *friendRequestRepository) FindPendingBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	return r.find(ctx, bson.M{"sender": userID, "status": model.FriendRequestPending})
}

func (r *friendRequestRepository) FindAcceptedBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	return r.find(ctx, bson.M{"sender": userID, "status": model.FriendRequestAccepted})
}

func (r *friendRequestRepository) find(ctx context.Context, filter bson.M) ([]model.FriendRequest, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []model.FriendRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
