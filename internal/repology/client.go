package repology

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://repology.org"
	userAgent      = "rosdep-arch-audit/0.1 (https://github.com/hvkleist/rosdep-arch-audit)"
)

// Repology asks API users to stay at or below one request per second.
const rateLimitInterval = time.Second

// Hit is one record from the project-by endpoint. Only the fields the
// resolver needs are decoded.
type Hit struct {
	Repo    string `json:"repo"`
	Subrepo string `json:"subrepo"`
	Binname string `json:"binname"`
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
}

// NewClient creates a repology API client. An empty baseURL selects the
// public instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitInterval), 1),
	}
}

// projectBy queries the binary-name search endpoint for one candidate
// name on one target repository.
func (c *Client) projectBy(ctx context.Context, repo, name string) ([]Hit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("repo", repo)
	params.Set("name_type", "binname")
	params.Set("target_page", "api_v1_project")
	params.Set("name", name)
	fullURL := c.baseURL + "/tools/project-by?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var hits []Hit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	return hits, nil
}
