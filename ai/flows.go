// Package ai wraps the generative helper flows. Both flows are opaque
// text-in/struct-out calls to an external service: best-effort,
// non-deterministic, never retried. A failure here is an ordinary error on
// the form that invoked it, nothing more.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	errs "github.com/staffdesk/staffdesk/internal/errors"
)

// ProfileDraft is the structured output of the draft-profile flow.
type ProfileDraft struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Bio        string `json:"bio"`
}

// FeedbackSummary is the structured output of the feedback-summary flow.
type FeedbackSummary struct {
	Summary                string `json:"summary"`
	KeyAreasForImprovement string `json:"keyAreasForImprovement"`
}

// Flows is the surface the handlers consume; tests substitute a fake.
type Flows interface {
	GenerateEmployeeProfile(ctx context.Context, description string) (*ProfileDraft, error)
	SummarizeEmployeeFeedback(ctx context.Context, feedbackText string) (*FeedbackSummary, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Flows = &Client{}

// ClientOption modifies a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a flow client. An empty baseURL produces a client whose
// flows report unavailable, so the rest of the app works without an AI
// service configured.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) GenerateEmployeeProfile(ctx context.Context, description string) (*ProfileDraft, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", errs.ErrValidation)
	}

	var draft ProfileDraft
	input := map[string]string{"description": description}
	if err := c.invoke(ctx, "/flows/generate-employee-profile", input, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *Client) SummarizeEmployeeFeedback(ctx context.Context, feedbackText string) (*FeedbackSummary, error) {
	if strings.TrimSpace(feedbackText) == "" {
		return nil, fmt.Errorf("%w: feedback text is required", errs.ErrValidation)
	}

	var summary FeedbackSummary
	input := map[string]string{"feedbackText": feedbackText}
	if err := c.invoke(ctx, "/flows/summarize-employee-feedback", input, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) invoke(ctx context.Context, path string, input, output any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: no AI service configured", errs.ErrUnavailable)
	}

	encoded, err := json.Marshal(input)
	if err != nil {
		return errs.Wrapf(err, "ai: encode %s", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errs.Wrapf(err, "ai: build %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: flow %s returned %d", errs.ErrUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(output); err != nil {
		return errs.Wrapf(err, "ai: decode %s", path)
	}
	return nil
}
