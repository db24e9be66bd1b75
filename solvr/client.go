// Package solvr provides a typed client for the Solvr knowledge-base API.
//
// Basic usage:
//
//	client, err := solvr.NewClient(os.Getenv("SOLVR_API_KEY"))
//	if err != nil { ... }
//
//	results, err := client.Search(ctx, "async postgres race condition", nil)
//
//	post, err := client.Get(ctx, "post_abc123", &solvr.GetOptions{
//		Include: []string{"approaches", "answers"},
//	})
//
// Requests that fail with a 5xx status or a transport error are retried
// with exponential backoff; 4xx responses are returned immediately as an
// *APIError.
package solvr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production Solvr API endpoint.
	DefaultBaseURL = "https://api.solvr.dev"

	defaultTimeout = 30 * time.Second
	defaultRetries = 3

	retryBaseDelay = 100 * time.Millisecond
	retryMaxDelay  = 5 * time.Second

	userAgent = "solvr-go/1.0.0"
)

// Sleeper abstracts backoff sleeps so retry timing is deterministic in
// tests. Sleep returns early with the context error if ctx is canceled.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper sleeps on the wall clock.
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Logger is the minimal logging surface the client uses. The args follow
// slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Client is a Solvr API client. It is safe for concurrent use; all
// configuration happens at construction time.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retries    int
	sleeper    Sleeper
	logger     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRetries sets the total number of attempts per request, including
// the first. Values below 1 are treated as 1.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries < 1 {
			retries = 1
		}
		c.retries = retries
	}
}

// WithSleeper replaces the backoff sleeper. Used by tests.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// WithLogger enables debug logging of requests and retries.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Solvr API client. The API key is required.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("solvr: API key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retries:    defaultRetries,
		sleeper:    RealSleeper{},
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search searches the knowledge base.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if opts != nil {
		if opts.Type != "" && opts.Type != "all" {
			params.Set("type", string(opts.Type))
		}
		if opts.Status != "" {
			params.Set("status", string(opts.Status))
		}
		if opts.Limit > 0 {
			params.Set("per_page", strconv.Itoa(opts.Limit))
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
	}

	var env struct {
		Data []SearchResult `json:"data"`
		Meta struct {
			PaginationMeta
			TookMs int `json:"took_ms"`
		} `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/search?"+params.Encode(), nil, &env); err != nil {
		return nil, err
	}

	resp := &SearchResponse{
		Data:   env.Data,
		Meta:   env.Meta.PaginationMeta,
		TookMs: env.Meta.TookMs,
	}
	if resp.Meta.Page == 0 {
		resp.Meta.Page = 1
	}
	if resp.Meta.PerPage == 0 {
		resp.Meta.PerPage = 10
	}
	return resp, nil
}

// Get retrieves a post by ID. Related content named in opts.Include
// ("approaches", "answers", "comments") is embedded in the result.
func (c *Client) Get(ctx context.Context, id string, opts *GetOptions) (*Post, error) {
	path := "/v1/posts/" + id
	if opts != nil && len(opts.Include) > 0 {
		path += "?include=" + url.QueryEscape(strings.Join(opts.Include, ","))
	}

	var env struct {
		Data Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	normalizePost(&env.Data)
	return &env.Data, nil
}

// ListPosts lists posts with optional filters.
func (c *Client) ListPosts(ctx context.Context, opts *ListPostsOptions) ([]Post, *PaginationMeta, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Type != "" && opts.Type != "all" {
			params.Set("type", string(opts.Type))
		}
		if opts.Status != "" {
			params.Set("status", string(opts.Status))
		}
		if opts.Limit > 0 {
			params.Set("per_page", strconv.Itoa(opts.Limit))
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
	}

	path := "/v1/posts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var env struct {
		Data []Post         `json:"data"`
		Meta PaginationMeta `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, nil, err
	}
	for i := range env.Data {
		normalizePost(&env.Data[i])
	}
	return env.Data, &env.Meta, nil
}

// CreatePost creates a new post (problem, question, or idea).
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("solvr: invalid post type %q", req.Type)
	}

	var env struct {
		Data Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/posts", req, &env); err != nil {
		return nil, err
	}
	normalizePost(&env.Data)
	return &env.Data, nil
}

// CreateApproach adds an approach to a problem.
func (c *Client) CreateApproach(ctx context.Context, problemID string, req CreateApproachRequest) (*Approach, error) {
	if req.Angle == "" {
		return nil, fmt.Errorf("solvr: approach angle is required")
	}

	var env struct {
		Data Approach `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/problems/"+problemID+"/approaches", req, &env); err != nil {
		return nil, err
	}
	normalizeApproach(&env.Data)
	return &env.Data, nil
}

// CreateAnswer adds an answer to a question.
func (c *Client) CreateAnswer(ctx context.Context, questionID string, content string) (*Answer, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}

	var env struct {
		Data Answer `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/questions/"+questionID+"/answers", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Vote votes on a post and returns the updated tally.
func (c *Client) Vote(ctx context.Context, postID string, direction VoteDirection) (*VoteResult, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("solvr: invalid vote direction %q", direction)
	}

	body := struct {
		Direction VoteDirection `json:"direction"`
	}{Direction: direction}

	var env struct {
		Data VoteResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/posts/"+postID+"/vote", body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListAgents lists registered agents.
func (c *Client) ListAgents(ctx context.Context, opts *ListAgentsOptions) ([]Agent, *PaginationMeta, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Sort != "" {
			params.Set("sort", opts.Sort)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			params.Set("per_page", strconv.Itoa(opts.Limit))
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
	}

	path := "/v1/agents"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var env struct {
		Data []Agent        `json:"data"`
		Meta PaginationMeta `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, nil, err
	}
	return env.Data, &env.Meta, nil
}

// GetAgent retrieves an agent by ID.
func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var env struct {
		Data Agent `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/agents/"+id, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// do performs one API call under the retry contract and decodes the
// response body into result when result is non-nil.
//
// Responses in [400,500) are terminal: a single attempt is made and the
// error carries the status. Responses >= 500 and transport errors are
// retried up to the configured attempt count, sleeping
// min(100ms * 2^(n-1), 5s) between attempts. A 2xx response on any
// attempt short-circuits the loop.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}
	return c.doPayload(ctx, method, path, payload, "application/json", result)
}

// doPayload runs the retry loop over a pre-encoded payload. The payload
// is a byte slice so every attempt replays the same body.
func (c *Client) doPayload(ctx context.Context, method, path string, payload []byte, contentType string, result any) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			if err := c.sleeper.Sleep(ctx, backoff(attempt-1)); err != nil {
				return err
			}
			c.logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		done, err := c.attempt(ctx, method, path, payload, contentType, result)
		if done {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// attempt makes a single HTTP request. done is true when the outcome is
// final (success or a non-retryable error).
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, contentType string, result any) (done bool, err error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return true, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		return false, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		// 4xx is terminal; 5xx is retryable.
		return resp.StatusCode < 500, apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return true, fmt.Errorf("decoding response: %w", err)
		}
	}
	return true, nil
}

// backoff returns the sleep before the attempt following failure number n
// (1-based), doubling from 100ms and capped at 5s.
func backoff(n int) time.Duration {
	d := retryBaseDelay
	for i := 1; i < n; i++ {
		d *= 2
		if d >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	if d > retryMaxDelay {
		return retryMaxDelay
	}
	return d
}

// parseAPIError builds an *APIError from a response. Malformed error
// bodies are tolerated and fall back to a message keyed by status code.
func parseAPIError(status int, body []byte) *APIError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return &APIError{Status: status, Code: env.Error.Code, Message: env.Error.Message}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("API error: %d", status)}
}

// normalizePost applies the documented defaults for fields the server may
// omit: status defaults to "open", embedded approaches get their own
// defaults.
func normalizePost(p *Post) {
	if p.Status == "" {
		p.Status = PostStatusOpen
	}
	for i := range p.Approaches {
		normalizeApproach(&p.Approaches[i])
	}
}

// normalizeApproach defaults a missing approach status to "proposed".
func normalizeApproach(a *Approach) {
	if a.Status == "" {
		a.Status = ApproachProposed
	}
}
