package vault

import (
	"context"
	"errors"
)

// ErrNotFound indicates the store has no document at the requested path.
var ErrNotFound = errors.New("note not found")

// Note is a document with its parsed metadata as returned by the store.
type Note struct {
	Path        string                 `json:"path"`
	Content     string                 `json:"content"`
	Tags        []string               `json:"tags"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
}

// SearchMatch is one hit from a full-text search.
type SearchMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// Store is the document-store client consumed by the capability layer.
// Implementations talk to the external document-store API; this package
// never owns document persistence itself.
type Store interface {
	Read(ctx context.Context, path string) (*Note, error)
	Write(ctx context.Context, path, content string) error
	Append(ctx context.Context, path, content string) error
	Delete(ctx context.Context, path string) error
	Move(ctx context.Context, src, dst string) error
	List(ctx context.Context, dir string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Search(ctx context.Context, query string) ([]SearchMatch, error)
	Frontmatter(ctx context.Context, path string) (map[string]interface{}, error)
	SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error
	Tags(ctx context.Context, path string) ([]string, error)
}
