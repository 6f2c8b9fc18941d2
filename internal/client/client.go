// Package client talks to the HTTP API on behalf of a signed-in user. It
// implements feed.Source and feed.Actions so a feed.Session can run against a
// remote backend.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

// TokenSource supplies the bearer token. *session.Store satisfies it.
type TokenSource interface {
	Token() string
}

// Config configures the client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080/api/v1.
	BaseURL string
	Tokens  TokenSource
	// HTTPClient is optional; tests pass httptest clients.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

var (
	_ feed.Source  = (*Client)(nil)
	_ feed.Actions = (*Client)(nil)
)

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
	}, nil
}

// Fetch asks the API for the next feed page. The user is implied by the
// bearer token; userID is only checked for presence.
func (c *Client) Fetch(ctx context.Context, userID uuid.UUID, limit int, criteria feed.Criteria) ([]models.Recipe, error) {
	if userID == uuid.Nil {
		return nil, feed.ErrInvalidUser
	}
	if limit <= 0 {
		return nil, feed.ErrInvalidLimit
	}
	var resp types.FeedResponse
	if err := c.do(ctx, http.MethodGet, "/feed?"+FeedQuery(limit, criteria).Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Recipes == nil {
		resp.Recipes = []models.Recipe{}
	}
	return resp.Recipes, nil
}

// Save records a right swipe.
func (c *Client) Save(ctx context.Context, userID uuid.UUID, recipeID int64) error {
	return c.do(ctx, http.MethodPost, "/saved/"+strconv.FormatInt(recipeID, 10), nil, nil)
}

// Report flags a recipe. A recipe the user already reported counts as done.
func (c *Client) Report(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) error {
	err := c.do(ctx, http.MethodPost, "/recipes/"+strconv.FormatInt(recipeID, 10)+"/report",
		types.ReportRequest{Reason: reason}, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return nil
	}
	return err
}

// Categories lists the public categories, for facet pickers.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// FeedQuery encodes limit and criteria the way GET /feed reads them.
func FeedQuery(limit int, criteria feed.Criteria) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if criteria.CategoryID != nil {
		q.Set("category_id", strconv.FormatInt(*criteria.CategoryID, 10))
	}
	if criteria.Difficulty != nil {
		q.Set("difficulty", string(*criteria.Difficulty))
	}
	if criteria.MaxPrepTime != nil {
		q.Set("max_prep_time", strconv.Itoa(*criteria.MaxPrepTime))
	}
	if len(criteria.TagIDs) > 0 {
		parts := make([]string, len(criteria.TagIDs))
		for i, id := range criteria.TagIDs {
			parts[i] = strconv.FormatInt(id, 10)
		}
		q.Set("tag_ids", strings.Join(parts, ","))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
