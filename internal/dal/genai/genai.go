// Package genai is a REST client for the Gemini image and Veo video generation endpoints.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ImageModel     = "gemini-3-pro-image-preview"
	EditImageModel = "gemini-2.5-flash-image"
	VideoModel     = "veo-3.1-fast-generate-preview"

	apiKeyHeader = "x-goog-api-key"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,`)

// Client talks to the Generative Language API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	pollInterval  time.Duration
	videoTimeout  time.Duration
	maxVideoBytes int64
}

// option is a function that configures the Client.
type option func(*Client)

// MustNewClient creates a Client from the gemini config section.
func MustNewClient() *Client {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		slog.Warn("Gemini API key is not set, media generation will fail with credential errors")
	}

	return NewClient(
		viper.GetString("gemini.base_url"),
		apiKey,
		WithPollInterval(viper.GetDuration("gemini.poll_interval")),
		WithVideoTimeout(viper.GetDuration("gemini.video_timeout")),
		WithMaxVideoBytes(viper.GetInt64("gemini.max_video_bytes")),
		WithHTTPClient(&http.Client{Timeout: viper.GetDuration("gemini.request_timeout")}),
	)
}

// NewClient creates a Client for the given API root, e.g. https://generativelanguage.googleapis.com/v1beta.
func NewClient(baseURL, apiKey string, opts ...option) *Client {
	c := &Client{
		httpClient:    http.DefaultClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		pollInterval:  5 * time.Second,
		videoTimeout:  10 * time.Minute,
		maxVideoBytes: 100 << 20,
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

// WithPollInterval sets how often a running video operation is checked. Non-positive values are ignored.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPollInterval(d time.Duration) option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithVideoTimeout bounds a whole video generation. Non-positive values are ignored.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithVideoTimeout(d time.Duration) option {
	return func(c *Client) {
		if d > 0 {
			c.videoTimeout = d
		}
	}
}

// WithMaxVideoBytes caps the size of a downloaded video. Non-positive values are ignored.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMaxVideoBytes(n int64) option {
	return func(c *Client) {
		if n > 0 {
			c.maxVideoBytes = n
		}
	}
}

// StripDataURL removes a recognized image data-URL prefix. Other input is returned unchanged.
func StripDataURL(image string) string {
	return dataURLPrefix.ReplaceAllString(image, "")
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, op, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp.StatusCode, readAPIMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return nil
}

func readAPIMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return err.Error()
	}

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}

	return strings.TrimSpace(string(raw))
}
