package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/vault"
)

// Read returns a note's content and metadata.
func (p *Proxy) Read(ctx context.Context, path string) (map[string]interface{}, error) {
	clean, err := p.guardRead(ctx, path, scopes.VaultRead)
	if err != nil {
		return nil, err
	}
	note, err := p.store.Read(ctx, clean)
	if err != nil {
		return nil, err
	}
	return noteMap(note), nil
}

// Write replaces a note's content.
func (p *Proxy) Write(ctx context.Context, path, content string) error {
	clean, err := p.guardWrite(ctx, path)
	if err != nil {
		return err
	}
	return p.store.Write(ctx, clean, content)
}

// Append adds content to the end of a note.
func (p *Proxy) Append(ctx context.Context, path, content string) error {
	clean, err := p.guardWrite(ctx, path)
	if err != nil {
		return err
	}
	return p.store.Append(ctx, clean, content)
}

// Delete removes a note.
func (p *Proxy) Delete(ctx context.Context, path string) error {
	clean, err := p.guardDelete(ctx, path)
	if err != nil {
		return err
	}
	return p.store.Delete(ctx, clean)
}

// Move relocates a note. The source is delete-class, the destination
// write-class: a protected source or read-only destination refuses the move.
func (p *Proxy) Move(ctx context.Context, src, dst string) error {
	cleanSrc, err := p.guardDelete(ctx, src)
	if err != nil {
		return err
	}
	cleanDst, err := p.guardWrite(ctx, dst)
	if err != nil {
		return err
	}
	return p.store.Move(ctx, cleanSrc, cleanDst)
}

// Rename moves a note within its directory. newName must be a bare file
// name, not a path.
func (p *Proxy) Rename(ctx context.Context, path, newName string) error {
	name := strings.TrimSpace(newName)
	if name == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid name: %q must be a bare file name", newName)
	}

	cleanSrc, err := p.guardDelete(ctx, path)
	if err != nil {
		return err
	}

	dst := name
	if idx := strings.LastIndexByte(cleanSrc, '/'); idx >= 0 {
		dst = cleanSrc[:idx+1] + name
	}
	cleanDst, err := p.guardWrite(ctx, dst)
	if err != nil {
		return err
	}
	return p.store.Move(ctx, cleanSrc, cleanDst)
}

// List returns the visible note paths under dir; an empty dir lists the
// vault root. Hidden notes never appear.
func (p *Proxy) List(ctx context.Context, dir string) ([]string, error) {
	clean := ""
	if strings.TrimSpace(dir) != "" {
		var err error
		clean, err = p.checkPath(dir)
		if err != nil {
			return nil, err
		}
	}
	if err := p.perms.Require(scopes.VaultRead); err != nil {
		return nil, err
	}

	files, err := p.store.List(ctx, clean)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		if p.visible(ctx, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Exists reports whether a note is present. Hidden notes report false, the
// same answer a nonexistent path gives.
func (p *Proxy) Exists(ctx context.Context, path string) (bool, error) {
	clean, err := p.checkPath(path)
	if err != nil {
		return false, err
	}
	if err := p.perms.Require(scopes.VaultRead); err != nil {
		return false, err
	}
	if !p.visible(ctx, clean) {
		return false, nil
	}
	return p.store.Exists(ctx, clean)
}

// Search runs a full-text query, dropping matches in hidden notes.
func (p *Proxy) Search(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if err := p.perms.Require(scopes.VaultRead); err != nil {
		return nil, err
	}

	matches, err := p.store.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		if !p.visible(ctx, m.Path) {
			continue
		}
		out = append(out, map[string]interface{}{
			"path":    m.Path,
			"line":    m.Line,
			"snippet": m.Snippet,
		})
	}
	return out, nil
}

// BulkDelete removes every visible note matching a glob pattern. Dry-run
// reports the match set without mutating anything; callers must explicitly
// request a live run. Protected notes are reported per-path, never deleted.
func (p *Proxy) BulkDelete(ctx context.Context, pattern string, dryRun bool) (map[string]interface{}, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("glob pattern is empty")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %q", pattern)
	}
	if err := p.perms.Require(scopes.VaultDelete); err != nil {
		return nil, err
	}

	files, err := p.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, f := range files {
		ok, err := doublestar.Match(pattern, f)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern: %w", err)
		}
		if ok && p.visible(ctx, f) {
			matches = append(matches, f)
		}
	}

	result := map[string]interface{}{
		"pattern": pattern,
		"dry_run": dryRun,
		"matches": matches,
	}
	if dryRun {
		return result, nil
	}

	var deleted []string
	var failures []string
	for _, f := range matches {
		if _, err := p.guardDelete(ctx, f); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f, err))
			continue
		}
		if err := p.store.Delete(ctx, f); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f, err))
			continue
		}
		deleted = append(deleted, f)
	}
	result["deleted"] = deleted
	if len(failures) > 0 {
		result["failures"] = failures
	}
	return result, nil
}

// GetFrontmatter returns a note's frontmatter block.
func (p *Proxy) GetFrontmatter(ctx context.Context, path string) (map[string]interface{}, error) {
	clean, err := p.guardRead(ctx, path, scopes.VaultRead)
	if err != nil {
		return nil, err
	}
	return p.store.Frontmatter(ctx, clean)
}

// SetFrontmatter replaces a note's frontmatter block.
func (p *Proxy) SetFrontmatter(ctx context.Context, path string, fm map[string]interface{}) error {
	clean, err := p.guardWrite(ctx, path)
	if err != nil {
		return err
	}
	return p.store.SetFrontmatter(ctx, clean, fm)
}

// GetTags returns the tags attached to a note.
func (p *Proxy) GetTags(ctx context.Context, path string) ([]string, error) {
	clean, err := p.guardRead(ctx, path, scopes.VaultRead)
	if err != nil {
		return nil, err
	}
	return p.store.Tags(ctx, clean)
}

func noteMap(note *vault.Note) map[string]interface{} {
	tags := make([]interface{}, 0, len(note.Tags))
	for _, t := range note.Tags {
		tags = append(tags, t)
	}
	return map[string]interface{}{
		"path":        note.Path,
		"content":     note.Content,
		"tags":        tags,
		"frontmatter": note.Frontmatter,
	}
}
