package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"harlos/internal/chat"
	"harlos/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindRecommended(ctx context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]model.User, error) {
	args := m.Called(ctx, userID, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockFriendRequestRepository is a mock implementation of
// repository.FriendRequestRepository.
type MockFriendRequestRepository struct {
	mock.Mock
}

func (m *MockFriendRequestRepository) Create(ctx context.Context, req *model.FriendRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockFriendRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FriendRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestRepository) ExistsBetween(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFriendRequestRepository) FindPendingForRecipient(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestRepository) FindPendingBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FriendRequest), args.Error(1)
}

func (m *MockFriendRequestRepository) FindAcceptedBySender(ctx context.Context, userID primitive.ObjectID) ([]model.FriendRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FriendRequest), args.Error(1)
}

// MockProvisioner is a mock implementation of chat.Provisioner.
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) UpsertUser(ctx context.Context, user chat.UserRecord) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockProvisioner) CreateToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
