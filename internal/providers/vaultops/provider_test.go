package vaultops

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/shared/types"
	"github.com/notevault/backend/internal/vault"
)

type memStore struct {
	notes map[string]string
	tags  map[string][]string
}

func newMemStore() *memStore {
	return &memStore{notes: map[string]string{}, tags: map[string][]string{}}
}

func (s *memStore) Read(ctx context.Context, path string) (*vault.Note, error) {
	content, ok := s.notes[path]
	if !ok {
		return nil, vault.ErrNotFound
	}
	return &vault.Note{Path: path, Content: content, Tags: s.tags[path]}, nil
}

func (s *memStore) Write(ctx context.Context, path, content string) error {
	s.notes[path] = content
	return nil
}

func (s *memStore) Append(ctx context.Context, path, content string) error {
	s.notes[path] += content
	return nil
}

func (s *memStore) Delete(ctx context.Context, path string) error {
	if _, ok := s.notes[path]; !ok {
		return vault.ErrNotFound
	}
	delete(s.notes, path)
	return nil
}

func (s *memStore) Move(ctx context.Context, src, dst string) error {
	content, ok := s.notes[src]
	if !ok {
		return vault.ErrNotFound
	}
	s.notes[dst] = content
	delete(s.notes, src)
	return nil
}

func (s *memStore) List(ctx context.Context, dir string) ([]string, error) {
	paths := make([]string, 0, len(s.notes))
	for p := range s.notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *memStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := s.notes[path]
	return ok, nil
}

func (s *memStore) Search(ctx context.Context, query string) ([]vault.SearchMatch, error) {
	var matches []vault.SearchMatch
	for p := range s.notes {
		matches = append(matches, vault.SearchMatch{Path: p, Line: 1, Snippet: s.notes[p]})
	}
	return matches, nil
}

func (s *memStore) Frontmatter(ctx context.Context, path string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (s *memStore) SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error {
	return nil
}

func (s *memStore) Tags(ctx context.Context, path string) ([]string, error) {
	return s.tags[path], nil
}

func execute(t *testing.T, p *Provider, toolID string, params map[string]interface{}, granted ...string) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, &types.Context{Scopes: granted})
	require.NoError(t, err)
	return result
}

func TestDefinitionCoversAllOperations(t *testing.T) {
	p := NewProvider(newMemStore())
	def := p.Definition()

	assert.Equal(t, "vault", def.ID)
	assert.Equal(t, types.CategoryVault, def.Category)

	want := []string{
		"vault.read", "vault.write", "vault.append", "vault.delete",
		"vault.move", "vault.rename", "vault.list", "vault.exists",
		"vault.search", "vault.bulk_delete", "vault.get_frontmatter",
		"vault.set_frontmatter", "vault.get_tags",
	}
	got := make([]string, 0, len(def.Tools))
	for _, tool := range def.Tools {
		got = append(got, tool.ID)
	}
	assert.ElementsMatch(t, want, got)
}

func TestReadWriteRoundTrip(t *testing.T) {
	p := NewProvider(newMemStore())

	result := execute(t, p, "vault.write", map[string]interface{}{
		"path":    "inbox/todo.md",
		"content": "- buy milk",
	}, scopes.VaultWrite, scopes.VaultRead)
	require.True(t, result.Success)

	result = execute(t, p, "vault.read", map[string]interface{}{
		"path": "inbox/todo.md",
	}, scopes.VaultWrite, scopes.VaultRead)
	require.True(t, result.Success)
	assert.Equal(t, "- buy milk", result.Data["content"])
}

func TestScopeDenied(t *testing.T) {
	store := newMemStore()
	store.notes["a.md"] = "body"
	p := NewProvider(store)

	result := execute(t, p, "vault.delete", map[string]interface{}{"path": "a.md"}, scopes.VaultRead)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "permission denied")
	assert.Contains(t, store.notes, "a.md")
}

func TestReadOnlyTagBlocksWrite(t *testing.T) {
	store := newMemStore()
	store.notes["policy.md"] = "immutable"
	store.tags["policy.md"] = []string{"readonly"}
	p := NewProvider(store)

	result := execute(t, p, "vault.write", map[string]interface{}{
		"path":    "policy.md",
		"content": "overwritten",
	}, scopes.VaultAll)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "read-only")
	assert.Equal(t, "immutable", store.notes["policy.md"])
}

func TestHiddenNoteInvisible(t *testing.T) {
	store := newMemStore()
	store.notes["secrets/keys.md"] = "hunter2"
	store.tags["secrets/keys.md"] = []string{"hidden"}
	store.notes["visible.md"] = "hello"
	p := NewProvider(store)

	result := execute(t, p, "vault.list", map[string]interface{}{}, scopes.VaultRead)
	require.True(t, result.Success)
	assert.Equal(t, []string{"visible.md"}, result.Data["files"])

	result = execute(t, p, "vault.read", map[string]interface{}{"path": "secrets/keys.md"}, scopes.VaultRead)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "not found")
}

func TestBulkDeleteDefaultsToDryRun(t *testing.T) {
	store := newMemStore()
	store.notes["drafts/a.md"] = "a"
	store.notes["drafts/b.md"] = "b"
	p := NewProvider(store)

	result := execute(t, p, "vault.bulk_delete", map[string]interface{}{
		"pattern": "drafts/*.md",
	}, scopes.VaultDelete)
	require.True(t, result.Success)
	assert.Equal(t, true, result.Data["dry_run"])
	assert.Len(t, store.notes, 2, "dry run must not delete")

	result = execute(t, p, "vault.bulk_delete", map[string]interface{}{
		"pattern": "drafts/*.md",
		"live":    true,
	}, scopes.VaultDelete)
	require.True(t, result.Success)
	assert.Empty(t, store.notes)
}

func TestMissingParameter(t *testing.T) {
	p := NewProvider(newMemStore())

	result := execute(t, p, "vault.read", map[string]interface{}{}, scopes.VaultRead)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "path parameter required")
}

func TestUnknownTool(t *testing.T) {
	p := NewProvider(newMemStore())

	result := execute(t, p, "vault.nonexistent", nil, scopes.All)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unknown tool")
}
