package govapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// APIError reports a failed call to the governance backend. It is distinct
// from an empty result: a search that succeeds with zero hits returns no
// error, while a transport failure or non-2xx status returns *APIError.
type APIError struct {
	Endpoint   string
	StatusCode int // 0 when the request never reached the backend
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("governance API %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("governance API %s: %v", e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client calls the governance backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCacheTTL sets how long aggregate endpoints (quality metrics, pipeline
// and catalog stats) are served from cache. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithHTTPClient replaces the underlying HTTP client (useful for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client for the governance backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   gocache.New(30*time.Second, time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs a GET against path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Endpoint: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// getCached serves path from the short-TTL cache when possible. Only used
// for aggregate endpoints whose staleness window is acceptable.
func (c *Client) getCached(path string, fetch func() (any, error)) (any, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(path); ok {
			return v, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetDefault(path, v)
	}
	return v, nil
}

// SearchAssets resolves a table/database search term against the catalog.
// assetType may be empty; limit <= 0 uses the backend default.
func (c *Client) SearchAssets(ctx context.Context, term, assetType string, limit int) ([]Asset, int, error) {
	q := url.Values{}
	q.Set("search", term)
	if assetType != "" {
		q.Set("type", assetType)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var env assetSearchEnvelope
	if err := c.getJSON(ctx, "/assets", q, &env); err != nil {
		return nil, 0, err
	}
	return env.Data.Assets, env.Data.Pagination.Total, nil
}

// AssetColumns lists the columns of a resolved asset.
func (c *Client) AssetColumns(ctx context.Context, assetID string) ([]Column, error) {
	var env columnsEnvelope
	if err := c.getJSON(ctx, "/assets/"+url.PathEscape(assetID)+"/columns", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// PIIPatterns runs PII field discovery across the catalog.
func (c *Client) PIIPatterns(ctx context.Context) ([]PIIFinding, error) {
	var env piiEnvelope
	if err := c.getJSON(ctx, "/pii-discovery/patterns", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// QualityMetrics fetches the overall and per-dimension quality scores.
func (c *Client) QualityMetrics(ctx context.Context) (*QualityMetrics, error) {
	v, err := c.getCached("/api/quality/metrics", func() (any, error) {
		var m QualityMetrics
		if err := c.getJSON(ctx, "/api/quality/metrics", nil, &m); err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*QualityMetrics), nil
}

// QualitySummary fetches the deeper quality breakdown (worst tables, open
// issues). Backends without this endpoint return 404, surfaced as *APIError.
func (c *Client) QualitySummary(ctx context.Context) (*QualitySummary, error) {
	var env qualitySummaryEnvelope
	if err := c.getJSON(ctx, "/api/quality/summary", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// PipelineStats fetches pipeline run counts.
func (c *Client) PipelineStats(ctx context.Context) (*PipelineStats, error) {
	v, err := c.getCached("/api/pipelines/stats", func() (any, error) {
		var env pipelineEnvelope
		if err := c.getJSON(ctx, "/api/pipelines/stats", nil, &env); err != nil {
			return nil, err
		}
		return &env.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*PipelineStats), nil
}

// CatalogStats fetches catalog summary counts.
func (c *Client) CatalogStats(ctx context.Context) (*CatalogStats, error) {
	v, err := c.getCached("/api/catalog/stats", func() (any, error) {
		var env catalogEnvelope
		if err := c.getJSON(ctx, "/api/catalog/stats", nil, &env); err != nil {
			return nil, err
		}
		return &env.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CatalogStats), nil
}

// DataSources lists configured backend connections.
func (c *Client) DataSources(ctx context.Context) ([]DataSource, error) {
	var env dataSourcesEnvelope
	if err := c.getJSON(ctx, "/api/data-sources", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
