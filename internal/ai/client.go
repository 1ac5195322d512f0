package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Categorization is the classifier's verdict on one inquiry.
type Categorization struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Classifier produces a category for an inquiry's text. Implementations are
// pure given their inputs; they never touch the database.
type Classifier interface {
	Categorize(ctx context.Context, subject, message, userID string) (*Categorization, error)
}

// HTTPClassifier calls the external categorization service.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type categorizeRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

func (c *HTTPClassifier) Categorize(ctx context.Context, subject, message, userID string) (*Categorization, error) {
	body, err := json.Marshal(categorizeRequest{
		Subject: subject,
		Message: message,
		UserID:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal categorize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/categorize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build categorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call categorization service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("categorization service returned %d: %s", resp.StatusCode, snippet)
	}

	var result Categorization
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode categorization response: %w", err)
	}
	if result.Category == "" {
		return nil, fmt.Errorf("categorization service returned empty category")
	}

	return &result, nil
}
