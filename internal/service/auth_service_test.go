package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"harlos/internal/auth"
	"harlos/internal/chat"
	apperrors "harlos/internal/errors"
	"harlos/internal/model"
)

func newAuthFixture() (*MockUserRepository, *MockProvisioner, AuthService) {
	users := new(MockUserRepository)
	provisioner := new(MockProvisioner)
	svc := NewAuthService(users, auth.NewJWTService("test-secret"), provisioner)
	return users, provisioner, svc
}

func TestAuthService_Signup(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		setup    func(users *MockUserRepository, provisioner *MockProvisioner)
		wantErr  error
	}{
		{
			name:     "success",
			fullName: "Ana",
			email:    "ana@x.com",
			password: "secret1",
			setup: func(users *MockUserRepository, provisioner *MockProvisioner) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, mongo.ErrNoDocuments)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = userID
					}).Return(nil)
				provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:     "chat provider down is non-fatal",
			fullName: "Ana",
			email:    "ana@x.com",
			password: "secret1",
			setup: func(users *MockUserRepository, provisioner *MockProvisioner) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, mongo.ErrNoDocuments)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = userID
					}).Return(nil)
				provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(errors.New("provider down"))
			},
		},
		{
			name:     "email already registered",
			fullName: "Ana",
			email:    "ana@x.com",
			password: "whatever",
			setup: func(users *MockUserRepository, provisioner *MockProvisioner) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").
					Return(&model.User{ID: userID, Email: "ana@x.com"}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
		{
			name:     "duplicate key race maps to conflict",
			fullName: "Ana",
			email:    "ana@x.com",
			password: "secret1",
			setup: func(users *MockUserRepository, provisioner *MockProvisioner) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, mongo.ErrNoDocuments)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}})
			},
			wantErr: apperrors.ErrEmailTaken,
		},
		{
			name:     "missing full name",
			fullName: "  ",
			email:    "ana@x.com",
			password: "secret1",
			wantErr:  apperrors.ErrMissingFields,
		},
		{
			name:     "short password",
			fullName: "Ana",
			email:    "ana@x.com",
			password: "12345",
			wantErr:  apperrors.ErrPasswordTooShort,
		},
		{
			name:     "bad email format",
			fullName: "Ana",
			email:    "not-an-email",
			password: "secret1",
			wantErr:  apperrors.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, provisioner, svc := newAuthFixture()
			if tt.setup != nil {
				tt.setup(users, provisioner)
			}

			user, token, err := svc.Signup(context.Background(), tt.fullName, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)
				assert.False(t, user.IsOnboarded)
				assert.NotEmpty(t, user.ProfilePic)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.CheckPassword(tt.password, user.PasswordHash))
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
			provisioner.AssertExpectations(t)
		})
	}
}

func TestAuthService_Signup_LowercasesEmail(t *testing.T) {
	users, provisioner, svc := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, mongo.ErrNoDocuments)
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = primitive.NewObjectID()
		}).Return(nil)
	provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)

	user, _, err := svc.Signup(context.Background(), "Ana", "  Ana@X.Com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", user.Email)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	existing := &model.User{ID: primitive.NewObjectID(), Email: "ana@x.com", PasswordHash: hash}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(users *MockUserRepository)
		wantErr  error
	}{
		{
			name:     "success",
			email:    "ana@x.com",
			password: "secret1",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").Return(existing, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "ana@x.com",
			password: "wrong",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "ana@x.com").Return(existing, nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret1",
			setup: func(users *MockUserRepository) {
				users.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, mongo.ErrNoDocuments)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, svc := newAuthFixture()
			if tt.setup != nil {
				tt.setup(users)
			}

			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				// both failure modes share one error, no enumeration signal
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, existing.ID, user.ID)
				assert.NotEmpty(t, token)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginAfterSignup(t *testing.T) {
	users, provisioner, svc := newAuthFixture()
	userID := primitive.NewObjectID()

	var created *model.User
	users.On("FindByEmail", mock.Anything, "ana@x.com").Return(nil, mongo.ErrNoDocuments).Once()
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
			created.ID = userID
		}).Return(nil)
	provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)

	_, _, err := svc.Signup(context.Background(), "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "ana@x.com").Return(created, nil)
	user, token, err := svc.Login(context.Background(), "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	claims, err := auth.NewJWTService("test-secret").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
}

func TestAuthService_Me(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name    string
		userID  string
		setup   func(users *MockUserRepository)
		wantErr error
	}{
		{
			name:   "success",
			userID: userID.Hex(),
			setup: func(users *MockUserRepository) {
				users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
			},
		},
		{
			name:    "malformed subject",
			userID:  "nope",
			wantErr: apperrors.ErrInvalidToken,
		},
		{
			name:   "subject no longer exists",
			userID: userID.Hex(),
			setup: func(users *MockUserRepository) {
				users.On("FindByID", mock.Anything, userID).Return(nil, mongo.ErrNoDocuments)
			},
			wantErr: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, _, svc := newAuthFixture()
			if tt.setup != nil {
				tt.setup(users)
			}

			user, err := svc.Me(context.Background(), tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_CompleteOnboarding(t *testing.T) {
	userID := primitive.NewObjectID()
	valid := OnboardingInput{
		FullName:         "Ana Moreira",
		Bio:              "Porto native",
		NativeLanguage:   "portuguese",
		LearningLanguage: "english",
		Location:         "Porto, Portugal",
	}

	t.Run("missing required field leaves flag unchanged", func(t *testing.T) {
		for _, mutate := range []func(*OnboardingInput){
			func(in *OnboardingInput) { in.FullName = "" },
			func(in *OnboardingInput) { in.Bio = " " },
			func(in *OnboardingInput) { in.NativeLanguage = "" },
			func(in *OnboardingInput) { in.LearningLanguage = "" },
			func(in *OnboardingInput) { in.Location = "" },
		} {
			users, _, svc := newAuthFixture()
			input := valid
			mutate(&input)

			user, err := svc.CompleteOnboarding(context.Background(), userID.Hex(), input)
			assert.ErrorIs(t, err, apperrors.ErrMissingFields)
			assert.Nil(t, user)
			users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	})

	t.Run("sets flag and re-provisions chat identity", func(t *testing.T) {
		users, provisioner, svc := newAuthFixture()
		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, FullName: "Ana", IsOnboarded: false}, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		provisioner.On("UpsertUser", mock.Anything, mock.MatchedBy(func(r chat.UserRecord) bool {
			return r.ID == userID.Hex() && r.Name == "Ana Moreira"
		})).Return(nil)

		user, err := svc.CompleteOnboarding(context.Background(), userID.Hex(), valid)
		require.NoError(t, err)
		assert.True(t, user.IsOnboarded)
		assert.Equal(t, "Ana Moreira", user.FullName)
		assert.Equal(t, "english", user.LearningLanguage)
		users.AssertExpectations(t)
		provisioner.AssertExpectations(t)
	})

	t.Run("repeat call keeps flag true", func(t *testing.T) {
		users, provisioner, svc := newAuthFixture()
		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, IsOnboarded: true, Bio: "old bio"}, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(nil)

		user, err := svc.CompleteOnboarding(context.Background(), userID.Hex(), valid)
		require.NoError(t, err)
		assert.True(t, user.IsOnboarded)
		assert.Equal(t, "Porto native", user.Bio)
	})

	t.Run("chat provider failure is swallowed", func(t *testing.T) {
		users, provisioner, svc := newAuthFixture()
		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID}, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		provisioner.On("UpsertUser", mock.Anything, mock.Anything).Return(errors.New("provider down"))

		user, err := svc.CompleteOnboarding(context.Background(), userID.Hex(), valid)
		require.NoError(t, err)
		assert.True(t, user.IsOnboarded)
	})
}
