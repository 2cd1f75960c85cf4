package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/exactmatch/storefront/pkg/config"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
	"github.com/exactmatch/storefront/pkg/metrics"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the external catalog API. It owns no data: every read is a
// passthrough to the upstream service.
type Client struct {
	baseURL string
	http    httpDoer
	metrics *metrics.StorefrontMetrics
}

// NewClient builds a catalog client for the configured upstream.
func NewClient(cfg config.CatalogConfig, m *metrics.StorefrontMetrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base url required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
	}, nil
}

// ListBatteries fetches /batteries/ with the normalized filter parameters.
func (c *Client) ListBatteries(ctx context.Context, filters Filters) (Page[Battery], error) {
	return fetchPage[Battery](ctx, c, "batteries", "/batteries/", BuildQuery(filters))
}

// FeaturedBatteries fetches the featured shelf.
func (c *Client) FeaturedBatteries(ctx context.Context) (Page[Battery], error) {
	return fetchPage[Battery](ctx, c, "batteries_featured", "/batteries/featured/", nil)
}

// PopularBatteries fetches the popular shelf.
func (c *Client) PopularBatteries(ctx context.Context) (Page[Battery], error) {
	return fetchPage[Battery](ctx, c, "batteries_popular", "/batteries/popular/", nil)
}

// SearchBatteries runs a free-text search.
func (c *Client) SearchBatteries(ctx context.Context, term string) (Page[Battery], error) {
	params := url.Values{}
	if term != "" {
		params.Set("q", term)
	}
	return fetchPage[Battery](ctx, c, "batteries_search", "/batteries/search/", params)
}

// GetBattery fetches one battery by id.
func (c *Client) GetBattery(ctx context.Context, id int) (*Battery, error) {
	payload, err := c.get(ctx, "battery_detail", fmt.Sprintf("/batteries/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	var battery Battery
	if err := json.Unmarshal(payload, &battery); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode battery")
	}
	return &battery, nil
}

// ListCategories fetches /categories/, optionally narrowed to one type.
func (c *Client) ListCategories(ctx context.Context, categoryType string) (Page[Category], error) {
	params := url.Values{}
	if categoryType != "" {
		params.Set("type", categoryType)
	}
	return fetchPage[Category](ctx, c, "categories", "/categories/", params)
}

// ListBrands fetches /brands/.
func (c *Client) ListBrands(ctx context.Context) (Page[Brand], error) {
	return fetchPage[Brand](ctx, c, "brands", "/brands/", nil)
}

func fetchPage[T any](ctx context.Context, c *Client, resource, path string, params url.Values) (Page[T], error) {
	payload, err := c.get(ctx, resource, path, params)
	if err != nil {
		return Page[T]{}, err
	}
	page, err := decodePage[T](payload)
	if err != nil {
		return Page[T]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+resource)
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, resource, path string, params url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncFetchFailure(resource)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()
	c.metrics.ObserveFetch(resource, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFetchFailure(resource)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	case resp.StatusCode >= 400:
		c.metrics.IncFetchFailure(resource)
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog responded with status %d", resp.StatusCode))
	}

	return body, nil
}
