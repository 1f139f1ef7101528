// Package figma is the in-tree design-platform connector: it pulls a file
// from the Figma REST API and flattens its node tree into a raw token
// collection for the normalization engine. Other design platforms bind
// through the same connector contract but live outside this repository.
package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

const figmaAPIBase = "https://api.figma.com/v1"

// Client is a Figma API client with transport settings tuned for large
// design files: connection pooling, HTTP/2 disabled to avoid stream errors,
// and a generous timeout.
type Client struct {
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a Figma API client authenticated with a personal access token.
func NewClient(accessToken string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// Disable HTTP/2 to avoid stream errors with large files
		ForceAttemptHTTP2: false,
	}

	return &Client{
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
}

// ExtractFileKey extracts the unique file identifier from a Figma URL.
// Supports both /file/ and /design/ URL patterns (e.g., figma.com/file/ABC123/Design-Name).
// The pattern is anchored so only genuine figma.com URLs match.
func ExtractFileKey(figmaURL string) (string, error) {
	re := regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:/|$)`)
	matches := re.FindStringSubmatch(figmaURL)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Figma URL format: must be a valid figma.com URL with /file/ or /design/ path")
	}

	return matches[1], nil
}

// GetFile retrieves complete file data from the Figma API including document
// structure, styles, and metadata. Retries up to 3 times with linear backoff
// on rate limits (429) and server errors (5xx).
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	url := fmt.Sprintf("%s/files/%s", figmaAPIBase, fileKey)

	var lastErr error
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("X-Figma-Token", c.accessToken)
		// Avoid keep-alive stream reuse issues with very large responses
		req.Header.Set("Connection", "close")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed to execute request: %w", attempt, err)
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
				continue
			}
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
			if attempt < maxRetries && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
				continue
			}
			return nil, lastErr
		}

		if readErr != nil {
			lastErr = fmt.Errorf("attempt %d failed to read response body: %w", attempt, readErr)
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
				continue
			}
			return nil, lastErr
		}

		var fileResp FileResponse
		if err := json.Unmarshal(body, &fileResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		return &fileResp, nil
	}

	return nil, lastErr
}
