package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the identity provider's admin API. Only user creation and
// the compensating delete are needed for employee provisioning.
type Client struct {
	baseURL  string
	adminKey string
	client   *http.Client
}

func NewClient(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		adminKey: adminKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.adminKey != ""
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

// CreateUser provisions a confirmed identity and returns its id.
func (c *Client) CreateUser(ctx context.Context, email, password, fullName string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("identity provider not configured")
	}

	body, err := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: map[string]string{"full_name": fullName},
	})
	if err != nil {
		return "", fmt.Errorf("marshal create user request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create user request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, snippet)
	}

	var out createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode create user response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("identity provider returned empty user id")
	}
	return out.ID, nil
}

// DeleteUser removes an identity again. Used as the rollback when the profile
// insert after provisioning fails.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if !c.Configured() {
		return fmt.Errorf("identity provider not configured")
	}
	if userID == "" {
		return fmt.Errorf("user id is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/users/"+userID, nil)
	if err != nil {
		return fmt.Errorf("build delete user request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.adminKey)
}
