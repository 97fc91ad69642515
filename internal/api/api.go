// Package api fetches the read-only remote collections.
package api

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

	"go.uber.org/zap"

	"github.com/Makepad-fr/trail/internal/model"
)

// DefaultBaseURL is the public JSONPlaceholder service.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// ErrStatus is wrapped by errors for non-success responses.
var ErrStatus = errors.New("api: unexpected status")

// Fetcher is the network collaborator. Every method returns the parsed
// collection or fails.
type Fetcher interface {
	Users(ctx context.Context) ([]model.User, error)
	UserTodos(ctx context.Context, userID uint64) ([]model.Todo, error)
	UserPosts(ctx context.Context, userID uint64) ([]model.Post, error)
	PostComments(ctx context.Context, postID uint64) ([]model.Comment, error)
	Posts(ctx context.Context) ([]model.Post, error)
	Todos(ctx context.Context) ([]model.Todo, error)
	Comments(ctx context.Context) ([]model.Comment, error)
}

// HTTPClient fetches from a JSONPlaceholder-compatible server.
type HTTPClient struct {
	base   *url.URL
	http   *http.Client
	auth   func() string
	logger *zap.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithAuth sets a function returning the Authorization header value.
func WithAuth(header func() string) Option {
	return func(c *HTTPClient) { c.auth = header }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &HTTPClient{
		base:   u,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("api")
	return c, nil
}

func (c *HTTPClient) Users(ctx context.Context) ([]model.User, error) {
	return getJSON[model.User](ctx, c, "/users")
}

func (c *HTTPClient) UserTodos(ctx context.Context, userID uint64) ([]model.Todo, error) {
	return getJSON[model.Todo](ctx, c, "/users/"+strconv.FormatUint(userID, 10)+"/todos")
}

func (c *HTTPClient) UserPosts(ctx context.Context, userID uint64) ([]model.Post, error) {
	return getJSON[model.Post](ctx, c, "/users/"+strconv.FormatUint(userID, 10)+"/posts")
}

func (c *HTTPClient) PostComments(ctx context.Context, postID uint64) ([]model.Comment, error) {
	return getJSON[model.Comment](ctx, c, "/posts/"+strconv.FormatUint(postID, 10)+"/comments")
}

func (c *HTTPClient) Posts(ctx context.Context) ([]model.Post, error) {
	return getJSON[model.Post](ctx, c, "/posts")
}

func (c *HTTPClient) Todos(ctx context.Context) ([]model.Todo, error) {
	return getJSON[model.Todo](ctx, c, "/todos")
}

func (c *HTTPClient) Comments(ctx context.Context) ([]model.Comment, error) {
	return getJSON[model.Comment](ctx, c, "/comments")
}

func getJSON[T any](ctx context.Context, c *HTTPClient, path string) ([]T, error) {
	endpoint := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if h := c.auth(); h != "" {
			req.Header.Set("Authorization", h)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %w %d", path, ErrStatus, resp.StatusCode)
	}
	var out []T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
