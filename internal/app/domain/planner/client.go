package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/touristique/touristique/internal/app/models"
)

// Amount is a cost value as the planning API reports it. The upstream mixes
// numbers and numeric strings; anything non-numeric decodes to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*a = 0
		return nil
	}
	trimmed = strings.Trim(trimmed, `"`)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// APIDay is one raw itinerary day from the planning API.
type APIDay struct {
	Day          int      `json:"day"`
	City         string   `json:"city"`
	Destinations []string `json:"destinations"`
	Cost         Amount   `json:"cost"`
}

// APICandidate is one raw candidate plan. The day list appears under either
// "itinerary" or "days" depending on the upstream revision.
type APICandidate struct {
	Itinerary []APIDay `json:"itinerary"`
	Days      []APIDay `json:"days"`
	TotalCost Amount   `json:"total_cost"`
}

// DayList returns whichever day list the candidate carries.
func (c *APICandidate) DayList() []APIDay {
	if len(c.Itinerary) > 0 {
		return c.Itinerary
	}
	return c.Days
}

// PlanResponse is the raw /plan payload. Multi-plan responses put their
// candidates under any of "itineraries", "options" or "plans"; single-plan
// responses use a top-level "itinerary".
type PlanResponse struct {
	Itineraries []APICandidate `json:"itineraries"`
	Options     []APICandidate `json:"options"`
	Plans       []APICandidate `json:"plans"`
	Itinerary   []APIDay       `json:"itinerary"`
	TotalCost   Amount         `json:"total_cost"`
}

// Candidates returns the multi-plan list under whichever key is populated.
func (r *PlanResponse) Candidates() []APICandidate {
	switch {
	case len(r.Itineraries) > 0:
		return r.Itineraries
	case len(r.Options) > 0:
		return r.Options
	case len(r.Plans) > 0:
		return r.Plans
	default:
		return nil
	}
}

// AskResponse is the /ask payload.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Ensure implementation satisfies the interface
var _ Client = (*HTTPClient)(nil)

// Client talks to the external planning API. Every method degrades rather
// than retries: a non-2xx status is an error the caller recovers from with
// an empty result, and an unconfigured base URL skips the call entirely.
type Client interface {
	RequestPlan(ctx context.Context, profile models.UserProfile) (*PlanResponse, error)
	AskQuestion(ctx context.Context, question string, profile models.UserProfile) (AskResponse, error)
	FetchRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error)
	FetchTrips(ctx context.Context, userID string) ([]models.Trip, error)
}

// HTTPClient is the JSON-over-HTTP implementation of Client.
type HTTPClient struct {
	logger  *zap.Logger
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a planning API client. An empty baseURL yields an
// offline client whose calls all return empty results without error.
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type planRequestBody struct {
	Preferences []string `json:"preferences"`
	Duration    int      `json:"duration"`
	Budget      float64  `json:"budget"`
	StartCity   string   `json:"start_city"`
}

type askRequestBody struct {
	Question    string   `json:"question"`
	Preferences []string `json:"preferences"`
	StartCity   string   `json:"start_city"`
}

// RequestPlan POSTs the profile-derived request to /plan. Returns nil with
// no error when no base URL is configured.
func (c *HTTPClient) RequestPlan(ctx context.Context, profile models.UserProfile) (*PlanResponse, error) {
	if c.baseURL == "" {
		c.logger.Debug("No planning API configured, skipping plan request")
		return nil, nil
	}

	body := planRequestBody{
		Preferences: profile.Interests,
		Duration:    profile.DurationDays,
		Budget:      profile.Budget,
		StartCity:   profile.StartCity,
	}

	var resp PlanResponse
	if err := c.postJSON(ctx, "/plan", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AskQuestion POSTs a chat question to /ask. Returns an empty answer with
// no error when no base URL is configured.
func (c *HTTPClient) AskQuestion(ctx context.Context, question string, profile models.UserProfile) (AskResponse, error) {
	if c.baseURL == "" {
		c.logger.Debug("No planning API configured, skipping question")
		return AskResponse{}, nil
	}

	body := askRequestBody{
		Question:    question,
		Preferences: profile.Interests,
		StartCity:   profile.StartCity,
	}

	var resp AskResponse
	if err := c.postJSON(ctx, "/ask", body, &resp); err != nil {
		return AskResponse{}, err
	}
	return resp, nil
}

// FetchRecommendations GETs the legacy /recommendations feed.
func (c *HTTPClient) FetchRecommendations(ctx context.Context, userID string) ([]models.Recommendation, error) {
	if c.baseURL == "" {
		return []models.Recommendation{}, nil
	}
	var items []models.Recommendation
	if err := c.getJSON(ctx, "/recommendations", userID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchTrips GETs the legacy /trips feed.
func (c *HTTPClient) FetchTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	if c.baseURL == "" {
		return []models.Trip{}, nil
	}
	var items []models.Trip
	if err := c.getJSON(ctx, "/trips", userID, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, out)
}

func (c *HTTPClient) getJSON(ctx context.Context, path, userID string, out any) error {
	endpoint := c.baseURL + path
	if userID != "" {
		endpoint += "?userId=" + url.QueryEscape(userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, out)
}

func (c *HTTPClient) do(req *http.Request, path string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Planning API request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("planning API request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Planning API returned error status",
			zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("planning API error %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
