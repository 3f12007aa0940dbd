package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrAPIError      = errors.New("TMDB API error")
	ErrUnauthorized  = errors.New("TMDB API rejected the credentials")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if either an API key or a read access token is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != "" || c.config.ReadAccessToken != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	var result ConfigurationResponse
	return c.doRequest(ctx, c.endpoint("/configuration"), c.baseParams(), &result)
}

// SearchMovies searches for movies by free-text query and returns the raw
// results in the order the service ranked them.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]MovieResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.baseParams()
	params.Set("query", query)
	params.Set("include_adult", strconv.FormatBool(c.config.IncludeAdult))
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}

	var response SearchMoviesResponse
	if err := c.doRequest(ctx, c.endpoint("/search/movie"), params, &response); err != nil {
		return nil, err
	}

	results := response.Results
	if results == nil {
		results = make([]MovieResult, 0)
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Int("totalResults", response.TotalResults).
		Msg("Movie search completed")

	return results, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

// baseParams carries the v3 api_key. A v4 read access token travels in the
// Authorization header instead, see doRequest.
func (c *Client) baseParams() url.Values {
	params := url.Values{}
	if c.config.APIKey != "" {
		params.Set("api_key", c.config.APIKey)
	}
	return params
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.config.ReadAccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.ReadAccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
