// Package scholar talks to the author-lookup search API and normalizes its
// responses into the Dataset served by the site.
package scholar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultBaseURL = "https://serpapi.com/search.json"
	Engine         = "google_scholar_author"
)

// ErrUpstreamUnavailable covers every failed fetch: transport errors,
// non-200 responses, malformed bodies and in-band API errors.
var ErrUpstreamUnavailable = errors.New("scholar: upstream unavailable")

type Client struct {
	http     *http.Client
	baseURL  *url.URL
	apiKey   string
	authorID string

	locale string
	limit  int
	sort   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}
func WithLocale(hl string) Option {
	return func(c *Client) { c.locale = hl }
}
func WithLimit(n int) Option {
	return func(c *Client) { c.limit = n }
}
func WithSort(order string) Option {
	return func(c *Client) { c.sort = order }
}

// New builds a client for one author. The API key may be empty; the
// upstream then rejects the call and callers fall back.
func New(authorID, apiKey string, opts ...Option) (*Client, error) {
	if authorID == "" {
		return nil, errors.New("authorID required")
	}
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:     http.DefaultClient,
		baseURL:  u,
		apiKey:   apiKey,
		authorID: authorID,
		locale:   "en",
		limit:    100,
		sort:     "pubdate",
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) newReq(ctx context.Context) (*http.Request, error) {
	u := *c.baseURL
	q := u.Query()
	q.Set("engine", Engine)
	q.Set("author_id", c.authorID)
	q.Set("hl", c.locale)
	q.Set("num", strconv.Itoa(c.limit))
	q.Set("sort", c.sort)
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// FetchAuthor performs one upstream call and normalizes the result. There
// are no retries; any failure wraps ErrUpstreamUnavailable.
func (c *Client) FetchAuthor(ctx context.Context) (Dataset, error) {
	req, err := c.newReq(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: build request: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Dataset{}, fmt.Errorf("%w: GET %s: %s", ErrUpstreamUnavailable, c.baseURL.Path, resp.Status)
	}
	return Decode(body)
}
