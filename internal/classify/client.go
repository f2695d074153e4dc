// Package classify scores news titles through the external sentiment
// inference service. Only the service's shape contract matters here:
// an ordered list of titles in, one class-probability vector per title
// out, same length and order. The model behind the endpoint is not
// this package's concern.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seenimoa/econpulse/pkg/models"
)

// Sentinel errors. Both are fatal to a pipeline run: there is no
// partial classification, a day is scored whole or not at all.
var (
	// ErrServiceUnavailable — the inference service cannot be reached
	// or answered with a non-2xx status.
	ErrServiceUnavailable = errors.New("sentiment service unavailable")

	// ErrShapeMismatch — the response does not line up one vector per
	// title, or a vector does not have one entry per class.
	ErrShapeMismatch = errors.New("probability shape mismatch")
)

// numClasses is the fixed width of each probability vector:
// negative, neutral, positive.
const numClasses = 3

// Client talks to the sentiment inference service.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
// Non-positive durations are ignored so an unset config value keeps
// the default bound instead of removing it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// NewClient creates a classifier client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("classifier base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping verifies the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

type classifyRequest struct {
	Titles []string `json:"titles"`
}

type classifyResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
}

// Score classifies the given items, one-to-one and order-preserving.
func (c *Client) Score(ctx context.Context, items []models.NewsItem) ([]models.ScoredNewsItem, error) {
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}

	data, err := json.Marshal(classifyRequest{Titles: titles})
	if err != nil {
		return nil, fmt.Errorf("classify: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("classify: decode response: %w", err)
	}

	if len(result.Probabilities) != len(items) {
		return nil, fmt.Errorf("%w: %d titles sent, %d vectors received",
			ErrShapeMismatch, len(items), len(result.Probabilities))
	}

	scored := make([]models.ScoredNewsItem, len(items))
	for i, probs := range result.Probabilities {
		if len(probs) != numClasses {
			return nil, fmt.Errorf("%w: vector %d has %d classes, want %d",
				ErrShapeMismatch, i, len(probs), numClasses)
		}
		label, points := FromProbs(probs)
		scored[i] = models.ScoredNewsItem{
			NewsItem: items[i],
			Label:    label,
			Points:   points,
			Probs:    probs,
		}
	}
	return scored, nil
}
