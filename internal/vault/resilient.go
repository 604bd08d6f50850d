package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/notevault/backend/internal/infrastructure/resilience"
)

// BreakerStore wraps a Store with a circuit breaker so a dead or
// flapping vault fails fast instead of stalling every request.
type BreakerStore struct {
	inner   Store
	breaker *resilience.Breaker
}

// NewBreakerStore decorates a store with the given circuit breaker.
func NewBreakerStore(inner Store, breaker *resilience.Breaker) *BreakerStore {
	return &BreakerStore{inner: inner, breaker: breaker}
}

// Breaker exposes the underlying breaker for health reporting.
func (s *BreakerStore) Breaker() *resilience.Breaker {
	return s.breaker
}

// do runs fn through the breaker. ErrNotFound is a normal outcome,
// not a vault failure, so it never counts toward tripping.
func (s *BreakerStore) do(fn func() error) error {
	var opErr error
	err := s.breaker.Do(func() error {
		opErr = fn()
		if errors.Is(opErr, ErrNotFound) {
			return nil
		}
		return opErr
	})
	if errors.Is(err, resilience.ErrOpen) || errors.Is(err, resilience.ErrThrottled) {
		return fmt.Errorf("vault unavailable: %w", err)
	}
	return opErr
}

func (s *BreakerStore) Read(ctx context.Context, path string) (*Note, error) {
	var note *Note
	err := s.do(func() error {
		var err error
		note, err = s.inner.Read(ctx, path)
		return err
	})
	return note, err
}

func (s *BreakerStore) Write(ctx context.Context, path, content string) error {
	return s.do(func() error {
		return s.inner.Write(ctx, path, content)
	})
}

func (s *BreakerStore) Append(ctx context.Context, path, content string) error {
	return s.do(func() error {
		return s.inner.Append(ctx, path, content)
	})
}

func (s *BreakerStore) Delete(ctx context.Context, path string) error {
	return s.do(func() error {
		return s.inner.Delete(ctx, path)
	})
}

func (s *BreakerStore) Move(ctx context.Context, src, dst string) error {
	return s.do(func() error {
		return s.inner.Move(ctx, src, dst)
	})
}

func (s *BreakerStore) List(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := s.do(func() error {
		var err error
		files, err = s.inner.List(ctx, dir)
		return err
	})
	return files, err
}

func (s *BreakerStore) Exists(ctx context.Context, path string) (bool, error) {
	var ok bool
	err := s.do(func() error {
		var err error
		ok, err = s.inner.Exists(ctx, path)
		return err
	})
	return ok, err
}

func (s *BreakerStore) Search(ctx context.Context, query string) ([]SearchMatch, error) {
	var matches []SearchMatch
	err := s.do(func() error {
		var err error
		matches, err = s.inner.Search(ctx, query)
		return err
	})
	return matches, err
}

func (s *BreakerStore) Frontmatter(ctx context.Context, path string) (map[string]interface{}, error) {
	var fm map[string]interface{}
	err := s.do(func() error {
		var err error
		fm, err = s.inner.Frontmatter(ctx, path)
		return err
	})
	return fm, err
}

func (s *BreakerStore) SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error {
	return s.do(func() error {
		return s.inner.SetFrontmatter(ctx, path, fm)
	})
}

func (s *BreakerStore) Tags(ctx context.Context, path string) ([]string, error) {
	var tags []string
	err := s.do(func() error {
		var err error
		tags, err = s.inner.Tags(ctx, path)
		return err
	})
	return tags, err
}
