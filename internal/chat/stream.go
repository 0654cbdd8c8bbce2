package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const defaultBaseURL = "https://chat.stream-io-api.com"

// UserRecord is the identity pushed to the chat provider.
type UserRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Provisioner registers user identities with the external chat provider and
// mints chat access tokens for them.
type Provisioner interface {
	UpsertUser(ctx context.Context, user UserRecord) error
	CreateToken(userID string) (string, error)
}

// StreamClient talks to the Stream Chat REST API. Server-side requests are
// authenticated with a JWT signed by the API secret.
type StreamClient struct {
	apiKey     string
	apiSecret  []byte
	baseURL    string
	httpClient *http.Client
}

var _ Provisioner = (*StreamClient)(nil)

// NewStreamClient creates a Stream API client.
func NewStreamClient(apiKey, apiSecret string) *StreamClient {
	return &StreamClient{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateToken mints a chat access token for the user. Stream user tokens are
// plain HS256 JWTs over the user id, with no expiry.
func (c *StreamClient) CreateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
	})
	signed, err := token.SignedString(c.apiSecret)
	if err != nil {
		return "", fmt.Errorf("sign chat token: %w", err)
	}
	return signed, nil
}

// UpsertUser creates or updates the user identity on the provider.
func (c *StreamClient) UpsertUser(ctx context.Context, user UserRecord) error {
	payload, err := json.Marshal(map[string]interface{}{
		"users": map[string]UserRecord{user.ID: user},
	})
	if err != nil {
		return fmt.Errorf("marshal upsert payload: %w", err)
	}

	url := fmt.Sprintf("%s/users?api_key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build upsert request: %w", err)
	}

	serverToken, err := c.serverToken()
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", serverToken)
	req.Header.Set("stream-auth-type", "jwt")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upsert chat user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upsert chat user: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// serverToken authenticates this backend to the provider.
func (c *StreamClient) serverToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"server": true,
	})
	signed, err := token.SignedString(c.apiSecret)
	if err != nil {
		return "", fmt.Errorf("sign server token: %w", err)
	}
	return signed, nil
}
