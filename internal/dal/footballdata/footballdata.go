package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"github.com/spf13/viper"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNoMatches        = errors.New("no matches in response")
)

// Client is a football-data.org v4 client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	location   *time.Location
	now        func() time.Time
}

// option is a function that configures the Client.
type option func(*Client)

// MustNewClient creates a Client from the football_data config section.
func MustNewClient() *Client {
	tz := viper.GetString("football_data.timezone")
	location, err := time.LoadLocation(tz)
	if err != nil {
		panic(fmt.Sprintf("Failed to load timezone %q: %v", tz, err))
	}

	return NewClient(
		viper.GetString("football_data.base_url"),
		viper.GetString("football_data.api_key"),
		WithLocation(location),
		WithHTTPClient(&http.Client{Timeout: viper.GetDuration("football_data.timeout")}),
	)
}

// NewClient creates a Client for the given API root.
func NewClient(baseURL, apiKey string, opts ...option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		location:   time.UTC,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets the HTTP client used for requests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHTTPClient(httpClient *http.Client) option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLocation sets the zone kick-off times are rendered in.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithLocation(location *time.Location) option {
	return func(c *Client) {
		c.location = location
	}
}

// WithClock overrides the clock used to decide whether a fixture is today.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(c *Client) {
		c.now = now
	}
}

// Matches fetches today's fixtures and converts them to the cafe's match model.
// An empty fixture list is reported as ErrNoMatches.
func (c *Client) Matches(ctx context.Context) ([]match.Match, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/matches", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build matches request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}
	if len(body.Matches) == 0 {
		return nil, ErrNoMatches
	}

	now := c.now().In(c.location)
	matches := make([]match.Match, 0, len(body.Matches))
	for _, m := range body.Matches {
		matches = append(matches, m.toModel(now, c.location))
	}

	return matches, nil
}
