package service

import (
	"context"
	"fmt"
	"time"

	"harlos/internal/cache"
	"harlos/internal/chat"
)

const chatTokenCacheTTL = time.Hour

// ChatService issues chat provider access tokens for authenticated users.
type ChatService interface {
	Token(ctx context.Context, userID string) (string, error)
}

type chatService struct {
	chat  chat.Provisioner
	cache *cache.Client
}

// NewChatService creates a new chat token service.
func NewChatService(chatProvisioner chat.Provisioner, cache *cache.Client) ChatService {
	return &chatService{chat: chatProvisioner, cache: cache}
}

func (s *chatService) cacheKey(userID string) string {
	return fmt.Sprintf("chat_token:%s", userID)
}

// Token returns the user's chat access token. Tokens are deterministic per
// user, so they cache well.
func (s *chatService) Token(ctx context.Context, userID string) (string, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		return string(data), nil
	}

	token, err := s.chat.CreateToken(userID)
	if err != nil {
		return "", fmt.Errorf("create chat token: %w", err)
	}

	_ = s.cache.Set(ctx, s.cacheKey(userID), []byte(token), chatTokenCacheTTL)
	return token, nil
}
