package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_Token(t *testing.T) {
	provisioner := new(MockProvisioner)
	svc := NewChatService(provisioner, nil)

	provisioner.On("CreateToken", "user-1").Return("chat-token", nil)

	token, err := svc.Token(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "chat-token", token)
	provisioner.AssertExpectations(t)
}

func TestChatService_Token_ProviderError(t *testing.T) {
	provisioner := new(MockProvisioner)
	svc := NewChatService(provisioner, nil)

	provisioner.On("CreateToken", "user-1").Return("", errors.New("bad secret"))

	token, err := svc.Token(context.Background(), "user-1")
	assert.Error(t, err)
	assert.Empty(t, token)
}
