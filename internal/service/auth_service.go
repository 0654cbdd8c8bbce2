package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"harlos/internal/auth"
	"harlos/internal/chat"
	apperrors "harlos/internal/errors"
	"harlos/internal/model"
	"harlos/internal/repository"
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OnboardingInput carries the profile fields required to complete onboarding.
type OnboardingInput struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
	ProfilePic       string
}

// AuthService orchestrates signup, login, session lookup and onboarding.
type AuthService interface {
	Signup(ctx context.Context, fullName, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	CompleteOnboarding(ctx context.Context, userID string, input OnboardingInput) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	chat       chat.Provisioner
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, chatProvisioner chat.Provisioner) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		chat:       chatProvisioner,
	}
}

// Signup creates a new account with a hashed password and issues a session
// token. The chat identity upsert is best-effort and never fails the signup.
func (s *authService) Signup(ctx context.Context, fullName, email, password string) (*model.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || email == "" || password == "" {
		return nil, "", apperrors.ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return nil, "", apperrors.ErrPasswordTooShort
	}
	if !emailRegex.MatchString(email) {
		return nil, "", apperrors.ErrInvalidEmail
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hashed,
		ProfilePic:   randomAvatar(),
		IsOnboarded:  false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// the unique email index wins the race under concurrent signups
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	s.provisionChatIdentity(ctx, user)

	token, err := s.jwtService.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and issues a session token. Unknown email and
// wrong password return the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperrors.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, token, nil
}

// Me loads the user identified by a verified session token subject.
func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
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

// CompleteOnboarding validates the required profile fields, updates the user
// and flips isOnboarded. Repeat calls update fields and leave the flag true.
func (s *authService) CompleteOnboarding(ctx context.Context, userID string, input OnboardingInput) (*model.User, error) {
	if strings.TrimSpace(input.FullName) == "" ||
		strings.TrimSpace(input.Bio) == "" ||
		strings.TrimSpace(input.NativeLanguage) == "" ||
		strings.TrimSpace(input.LearningLanguage) == "" ||
		strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.ErrMissingFields
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(input.FullName)
	user.Bio = strings.TrimSpace(input.Bio)
	user.NativeLanguage = strings.TrimSpace(input.NativeLanguage)
	user.LearningLanguage = strings.TrimSpace(input.LearningLanguage)
	user.Location = strings.TrimSpace(input.Location)
	if input.ProfilePic != "" {
		user.ProfilePic = input.ProfilePic
	}
	user.IsOnboarded = true

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.provisionChatIdentity(ctx, user)

	return user, nil
}

// provisionChatIdentity pushes the user to the chat provider. Failures are
// logged and discarded: a chat provider outage never blocks account flows.
func (s *authService) provisionChatIdentity(ctx context.Context, user *model.User) {
	record := chat.UserRecord{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Image: user.ProfilePic,
	}
	if err := s.chat.UpsertUser(ctx, record); err != nil {
		log.Printf("chat identity upsert failed for user %s: %v", user.ID.Hex(), err)
	}
}

func randomAvatar() string {
	idx := rand.Intn(100) + 1
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", idx)
}
