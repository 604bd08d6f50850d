package monitoring

import (
	"context"
	"time"

	"github.com/notevault/backend/internal/vault"
)

// MeteredStore wraps a vault.Store and records per-operation call metrics.
type MeteredStore struct {
	inner   vault.Store
	metrics *Metrics
}

// NewMeteredStore decorates a store with call metrics.
func NewMeteredStore(inner vault.Store, metrics *Metrics) *MeteredStore {
	return &MeteredStore{inner: inner, metrics: metrics}
}

func (s *MeteredStore) record(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordStoreCall(op, status, time.Since(start))
}

func (s *MeteredStore) Read(ctx context.Context, path string) (*vault.Note, error) {
	start := time.Now()
	note, err := s.inner.Read(ctx, path)
	s.record("read", start, err)
	return note, err
}

func (s *MeteredStore) Write(ctx context.Context, path, content string) error {
	start := time.Now()
	err := s.inner.Write(ctx, path, content)
	s.record("write", start, err)
	return err
}

func (s *MeteredStore) Append(ctx context.Context, path, content string) error {
	start := time.Now()
	err := s.inner.Append(ctx, path, content)
	s.record("append", start, err)
	return err
}

func (s *MeteredStore) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, path)
	s.record("delete", start, err)
	return err
}

func (s *MeteredStore) Move(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := s.inner.Move(ctx, src, dst)
	s.record("move", start, err)
	return err
}

func (s *MeteredStore) List(ctx context.Context, dir string) ([]string, error) {
	start := time.Now()
	files, err := s.inner.List(ctx, dir)
	s.record("list", start, err)
	return files, err
}

func (s *MeteredStore) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := s.inner.Exists(ctx, path)
	s.record("exists", start, err)
	return ok, err
}

func (s *MeteredStore) Search(ctx context.Context, query string) ([]vault.SearchMatch, error) {
	start := time.Now()
	matches, err := s.inner.Search(ctx, query)
	s.record("search", start, err)
	return matches, err
}

func (s *MeteredStore) Frontmatter(ctx context.Context, path string) (map[string]interface{}, error) {
	start := time.Now()
	fm, err := s.inner.Frontmatter(ctx, path)
	s.record("frontmatter", start, err)
	return fm, err
}

func (s *MeteredStore) SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error {
	start := time.Now()
	err := s.inner.SetFrontmatter(ctx, path, fm)
	s.record("set_frontmatter", start, err)
	return err
}

func (s *MeteredStore) Tags(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	tags, err := s.inner.Tags(ctx, path)
	s.record("tags", start, err)
	return tags, err
}
