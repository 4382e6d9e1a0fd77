// Package fetch implements the core.Fetcher interface against the fabtcg
// card site. It performs plain HTTP GETs with a fixed origin; any failure
// along the round-trip surfaces as a single *core.UpstreamError condition.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gaurav-prasanna/cardpipe/core"
)

const (
	// DefaultOrigin is the card site all three resources are served from.
	DefaultOrigin = "https://fabtcg.com"

	searchPath = "/api/search/v1/cards/"
	printsPath = "/api/search/v1/prints/"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "cardpipe/1.0 (https://github.com/gaurav-prasanna/cardpipe)"
)

// Client fetches card payloads from a single upstream origin.
type Client struct {
	origin string
	client *http.Client
}

var _ core.Fetcher = (*Client)(nil)

// New creates a Client for the given origin. Empty origin and
// non-positive timeout fall back to the defaults.
func New(origin string, timeout time.Duration) *Client {
	if origin == "" {
		origin = DefaultOrigin
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		origin: strings.TrimSuffix(origin, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Origin returns the origin all requests are issued against.
func (c *Client) Origin() string { return c.origin }

// Search queries the card search endpoint with a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	q := url.Values{}
	q.Set("q", query)
	return c.get(ctx, c.origin+searchPath+"?"+q.Encode(), "application/json")
}

// Prints lists the printings recorded for one card identifier.
func (c *Client) Prints(ctx context.Context, cardID string) ([]byte, error) {
	q := url.Values{}
	q.Set("card_id", cardID)
	return c.get(ctx, c.origin+printsPath+"?"+q.Encode(), "application/json")
}

// DetailPage fetches the HTML card page, optionally pinned to a print.
// Identifiers are path-escaped so a reserved character cannot change the
// request's target resource.
func (c *Client) DetailPage(ctx context.Context, cardID, printID string) (string, error) {
	target := c.origin + "/card/" + url.PathEscape(cardID) + "/"
	if printID != "" {
		target += url.PathEscape(printID) + "/"
	}
	body, err := c.get(ctx, target, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &core.UpstreamError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.UpstreamError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.UpstreamError{URL: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.UpstreamError{URL: target, Err: err}
	}
	return body, nil
}
