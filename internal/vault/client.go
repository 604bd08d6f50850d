package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// ClientConfig defines store client behavior.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultClientConfig returns production-ready client configuration.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:    baseURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// HTTPStore implements Store against the local document-store REST API.
type HTTPStore struct {
	client *resty.Client
}

// NewHTTPStore creates a store client with retrying transport.
func NewHTTPStore(cfg ClientConfig) *HTTPStore {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "NoteVault-Backend/1.0").
		SetTransport(retryClient.HTTPClient.Transport)

	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPStore{client: client}
}

type fileResponse struct {
	Path    string   `json:"path"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type writeRequest struct {
	Content string `json:"content"`
}

type moveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type listResponse struct {
	Files []string `json:"files"`
}

type searchResponse struct {
	Matches []SearchMatch `json:"matches"`
}

// Read fetches a note and parses its frontmatter.
func (s *HTTPStore) Read(ctx context.Context, path string) (*Note, error) {
	var body fileResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		SetResult(&body).
		Get("/vault/file")
	if err != nil {
		return nil, fmt.Errorf("store read: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.IsError() {
		return nil, storeError("read", path, resp)
	}

	fm, err := parseFrontmatter(body.Content)
	if err != nil {
		// Malformed frontmatter should not make the note unreadable.
		fm = map[string]interface{}{}
	}
	return &Note{
		Path:        path,
		Content:     body.Content,
		Tags:        body.Tags,
		Frontmatter: fm,
	}, nil
}

// Write replaces a note's content, creating it if absent.
func (s *HTTPStore) Write(ctx context.Context, path, content string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		SetBody(writeRequest{Content: content}).
		Put("/vault/file")
	if err != nil {
		return fmt.Errorf("store write: %w", err)
	}
	if resp.IsError() {
		return storeError("write", path, resp)
	}
	return nil
}

// Append adds content to the end of a note, creating it if absent.
func (s *HTTPStore) Append(ctx context.Context, path, content string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		SetBody(writeRequest{Content: content}).
		Post("/vault/file/append")
	if err != nil {
		return fmt.Errorf("store append: %w", err)
	}
	if resp.IsError() {
		return storeError("append", path, resp)
	}
	return nil
}

// Delete removes a note.
func (s *HTTPStore) Delete(ctx context.Context, path string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		Delete("/vault/file")
	if err != nil {
		return fmt.Errorf("store delete: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.IsError() {
		return storeError("delete", path, resp)
	}
	return nil
}

// Move relocates a note, updating the store's link index.
func (s *HTTPStore) Move(ctx context.Context, src, dst string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(moveRequest{Source: src, Destination: dst}).
		Post("/vault/move")
	if err != nil {
		return fmt.Errorf("store move: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	if resp.IsError() {
		return storeError("move", src, resp)
	}
	return nil
}

// List returns the paths under dir, vault-relative.
func (s *HTTPStore) List(ctx context.Context, dir string) ([]string, error) {
	var body listResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("dir", dir).
		SetResult(&body).
		Get("/vault/list")
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	if resp.IsError() {
		return nil, storeError("list", dir, resp)
	}
	return body.Files, nil
}

// Exists reports whether a note is present.
func (s *HTTPStore) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		Head("/vault/file")
	if err != nil {
		return false, fmt.Errorf("store exists: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, storeError("exists", path, resp)
	}
	return true, nil
}

// Search runs a full-text query against the store's index.
func (s *HTTPStore) Search(ctx context.Context, query string) ([]SearchMatch, error) {
	var body searchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(&body).
		Get("/vault/search")
	if err != nil {
		return nil, fmt.Errorf("store search: %w", err)
	}
	if resp.IsError() {
		return nil, storeError("search", query, resp)
	}
	return body.Matches, nil
}

// Frontmatter returns a note's parsed frontmatter block.
func (s *HTTPStore) Frontmatter(ctx context.Context, path string) (map[string]interface{}, error) {
	note, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return note.Frontmatter, nil
}

// SetFrontmatter rewrites a note's frontmatter block, preserving the body.
func (s *HTTPStore) SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error {
	note, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	content, err := composeFrontmatter(note.Content, fm)
	if err != nil {
		return err
	}
	return s.Write(ctx, path, content)
}

// Tags returns the tags attached to a note. A missing note yields an empty
// set so the protection oracle can treat absent and untagged paths alike.
func (s *HTTPStore) Tags(ctx context.Context, path string) ([]string, error) {
	note, err := s.Read(ctx, path)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return note.Tags, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func storeError(op, subject string, resp *resty.Response) error {
	return fmt.Errorf("store %s %q: unexpected status %d", op, subject, resp.StatusCode())
}
