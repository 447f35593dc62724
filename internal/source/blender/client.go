// Package blender reads the Blender Foundation build feed.
package blender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JJeris/blendio/internal/domain"
)

const (
	// DefaultConnectTimeout bounds the connectivity probe.
	DefaultConnectTimeout = 5 * time.Second

	userAgent = "blendio"
)

// Client fetches the list of downloadable builds
type Client struct {
	httpClient     *http.Client
	feedURL        string
	connectTimeout time.Duration
	platform       domain.Platform
}

// NewClient creates a feed client. A nil httpClient means http.DefaultClient.
func NewClient(httpClient *http.Client, feedURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:     httpClient,
		feedURL:        feedURL,
		connectTimeout: DefaultConnectTimeout,
		platform:       domain.CurrentPlatform(),
	}
}

// SetConnectTimeout changes the connectivity probe timeout
func (c *Client) SetConnectTimeout(d time.Duration) {
	if d > 0 {
		c.connectTimeout = d
	}
}

// SetPlatform overrides the platform used for filtering
func (c *Client) SetPlatform(p domain.Platform) {
	c.platform = p
}

// FetchDownloadable returns the feed entries built for the client's platform,
// in feed order.
func (c *Client) FetchDownloadable(ctx context.Context) ([]domain.DownloadableBuild, error) {
	var all []domain.DownloadableBuild
	if err := c.doRequest(ctx, &all); err != nil {
		return nil, domain.E(domain.KindNetwork, "fetching build feed", err)
	}
	return Filter(all, c.platform), nil
}

// Filter keeps the builds matching p.
func Filter(builds []domain.DownloadableBuild, p domain.Platform) []domain.DownloadableBuild {
	out := []domain.DownloadableBuild{}
	for _, b := range builds {
		if p.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// CheckConnectivity issues a GET against the feed with a short timeout.
func (c *Client) CheckConnectivity(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return domain.E(domain.KindNetwork, "checking connectivity", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.E(domain.KindNetwork, "checking connectivity", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.E(domain.KindNetwork, "checking connectivity",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, result any) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
