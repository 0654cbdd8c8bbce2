package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"harlos/internal/cache"
	apperrors "harlos/internal/errors"
	"harlos/internal/model"
	"harlos/internal/repository"
)

const recommendedCacheTTL = time.Minute

// UserService exposes friend and partner-discovery operations.
type UserService interface {
	RecommendedUsers(ctx context.Context, userID string) ([]model.Profile, error)
	Friends(ctx context.Context, userID string) ([]model.Profile, error)
	SendFriendRequest(ctx context.Context, userID, recipientID string) (*model.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, userID, requestID string) error
	FriendRequests(ctx context.Context, userID string) (incoming, accepted []model.PopulatedFriendRequest, err error)
	OutgoingFriendRequests(ctx context.Context, userID string) ([]model.PopulatedFriendRequest, error)
}

type userService struct {
	users    repository.UserRepository
	requests repository.FriendRequestRepository
	cache    *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(users repository.UserRepository, requests repository.FriendRequestRepository, cache *cache.Client) UserService {
	return &userService{users: users, requests: requests, cache: cache}
}

func (s *userService) recommendedCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("recommended:%s", id.Hex())
}

// RecommendedUsers returns onboarded users who are neither the caller nor
// already friends, cached briefly per caller.
func (s *userService) RecommendedUsers(ctx context.Context, userID string) ([]model.Profile, error) {
	me, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, _ := s.cache.Get(ctx, s.recommendedCacheKey(me.ID)); data != nil {
		var cached []model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	users, err := s.users.FindRecommended(ctx, me.ID, me.Friends)
	if err != nil {
		return nil, fmt.Errorf("find recommended users: %w", err)
	}

	profiles := make([]model.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].AsProfile())
	}

	if payload, err := json.Marshal(profiles); err == nil {
		_ = s.cache.Set(ctx, s.recommendedCacheKey(me.ID), payload, recommendedCacheTTL)
	}

	return profiles, nil
}

// Friends returns the caller's friends as public profiles.
func (s *userService) Friends(ctx context.Context, userID string) ([]model.Profile, error) {
	me, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.users.FindByIDs(ctx, me.Friends)
	if err != nil {
		return nil, fmt.Errorf("find friends: %w", err)
	}

	profiles := make([]model.Profile, 0, len(friends))
	for i := range friends {
		profiles = append(profiles, friends[i].AsProfile())
	}
	return profiles, nil
}

// SendFriendRequest creates a pending request to the recipient.
func (s *userService) SendFriendRequest(ctx context.Context, userID, recipientID string) (*model.FriendRequest, error) {
	if userID == recipientID {
		return nil, apperrors.ErrSelfFriendRequest
	}

	me, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	rid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	recipient, err := s.users.FindByID(ctx, rid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find recipient: %w", err)
	}

	for _, friendID := range recipient.Friends {
		if friendID == me.ID {
			return nil, apperrors.ErrAlreadyFriends
		}
	}

	exists, err := s.requests.ExistsBetween(ctx, me.ID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return nil, apperrors.ErrFriendRequestExists
	}

	req := &model.FriendRequest{
		Sender:    me.ID,
		Recipient: recipient.ID,
		Status:    model.FriendRequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	return req, nil
}

// AcceptFriendRequest marks the request accepted and adds each user to the
// other's friend set, keeping the relation symmetric. Only the recipient may
// accept.
func (s *userService) AcceptFriendRequest(ctx context.Context, userID, requestID string) error {
	rid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return apperrors.ErrFriendRequestNotFound
	}

	req, err := s.requests.FindByID(ctx, rid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrFriendRequestNotFound
		}
		return fmt.Errorf("find friend request: %w", err)
	}

	if req.Recipient.Hex() != userID {
		return apperrors.ErrNotRequestRecipient
	}

	if err := s.requests.UpdateStatus(ctx, req.ID, model.FriendRequestAccepted); err != nil {
		return fmt.Errorf("update request status: %w", err)
	}

	// both adds are idempotent, so a crash between them is repaired by
	// accepting again
	if err := s.users.AddFriend(ctx, req.Sender, req.Recipient); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	if err := s.users.AddFriend(ctx, req.Recipient, req.Sender); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}

	_ = s.cache.Delete(ctx, s.recommendedCacheKey(req.Sender))
	_ = s.cache.Delete(ctx, s.recommendedCacheKey(req.Recipient))

	return nil
}

// FriendRequests returns pending requests addressed to the caller plus
// accepted requests the caller sent, with profiles populated.
func (s *userService) FriendRequests(ctx context.Context, userID string) (incoming, accepted []model.PopulatedFriendRequest, err error) {
	me, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	pending, err := s.requests.FindPendingForRecipient(ctx, me.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find incoming requests: %w", err)
	}
	acceptedReqs, err := s.requests.FindAcceptedBySender(ctx, me.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find accepted requests: %w", err)
	}

	incoming, err = s.populate(ctx, pending)
	if err != nil {
		return nil, nil, err
	}
	accepted, err = s.populate(ctx, acceptedReqs)
	if err != nil {
		return nil, nil, err
	}
	return incoming, accepted, nil
}

// OutgoingFriendRequests returns pending requests the caller sent.
func (s *userService) OutgoingFriendRequests(ctx context.Context, userID string) ([]model.PopulatedFriendRequest, error) {
	me, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requests.FindPendingBySender(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("find outgoing requests: %w", err)
	}
	return s.populate(ctx, pending)
}

func (s *userService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) populate(ctx context.Context, reqs []model.FriendRequest) ([]model.PopulatedFriendRequest, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs)*2)
	for _, req := range reqs {
		ids = append(ids, req.Sender, req.Recipient)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("populate requests: %w", err)
	}
	byID := make(map[primitive.ObjectID]model.Profile, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].AsProfile()
	}

	populated := make([]model.PopulatedFriendRequest, 0, len(reqs))
	for _, req := range reqs {
		populated = append(populated, model.PopulatedFriendRequest{
			ID:        req.ID,
			Sender:    byID[req.Sender],
			Recipient: byID[req.Recipient],
			Status:    req.Status,
			CreatedAt: req.CreatedAt,
		})
	}
	return populated, nil
}
