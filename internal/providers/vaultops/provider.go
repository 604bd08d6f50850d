// Package vaultops exposes the capability-proxied vault operations as
// individually callable tools, sharing the enforcement path with scripted
// access so both surfaces see identical scope and protection behavior.
package vaultops

import (
	"context"
	"fmt"

	"github.com/notevault/backend/internal/capability"
	"github.com/notevault/backend/internal/security/protection"
	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/shared/types"
	"github.com/notevault/backend/internal/vault"
)

// Provider exposes vault operations to the tool-dispatch layer.
type Provider struct {
	store  vault.Store
	oracle *protection.Oracle
}

// NewProvider creates a vault tool provider over the given store.
func NewProvider(store vault.Store) *Provider {
	return &Provider{
		store:  store,
		oracle: protection.NewOracle(store),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	pathParam := types.Parameter{Name: "path", Type: "string", Description: "Vault-relative note path", Required: true}
	return types.Service{
		ID:          "vault",
		Name:        "Vault Operations",
		Description: "Read, write, and organize vault notes under scope and protection enforcement",
		Category:    types.CategoryVault,
		Capabilities: []string{
			"read", "write", "delete", "search",
		},
		Tools: []types.Tool{
			{
				ID: "vault.read", Name: "Read Note",
				Description: "Read a note's content and metadata",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "object",
			},
			{
				ID: "vault.write", Name: "Write Note",
				Description: "Create or replace a note's content",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "content", Type: "string", Description: "Full note body", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "vault.append", Name: "Append to Note",
				Description: "Append content to the end of a note",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "content", Type: "string", Description: "Content to append", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "vault.delete", Name: "Delete Note",
				Description: "Delete a note",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "object",
			},
			{
				ID: "vault.move", Name: "Move Note",
				Description: "Move a note to a new path",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Current note path", Required: true},
					{Name: "destination", Type: "string", Description: "New note path", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "vault.rename", Name: "Rename Note",
				Description: "Rename a note within its directory",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "name", Type: "string", Description: "New bare file name", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "vault.list", Name: "List Notes",
				Description: "List visible note paths under a directory",
				Parameters: []types.Parameter{
					{Name: "directory", Type: "string", Description: "Directory to list, empty for the vault root", Required: false},
				},
				Returns: "array",
			},
			{
				ID: "vault.exists", Name: "Note Exists",
				Description: "Check whether a note exists",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "boolean",
			},
			{
				ID: "vault.search", Name: "Search Notes",
				Description: "Full-text search across visible notes",
				Parameters: []types.Parameter{
					{Name: "query", Type: "string", Description: "Search query", Required: true},
				},
				Returns: "array",
			},
			{
				ID: "vault.bulk_delete", Name: "Bulk Delete",
				Description: "Delete notes matching a glob pattern; dry-run unless live is set",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Glob pattern, ** supported", Required: true},
					{Name: "live", Type: "boolean", Description: "Actually delete instead of previewing", Required: false},
				},
				Returns: "object",
			},
			{
				ID: "vault.get_frontmatter", Name: "Get Frontmatter",
				Description: "Read a note's frontmatter block",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "object",
			},
			{
				ID: "vault.set_frontmatter", Name: "Set Frontmatter",
				Description: "Replace a note's frontmatter block",
				Parameters: []types.Parameter{
					pathParam,
					{Name: "frontmatter", Type: "object", Description: "New frontmatter mapping", Required: true},
				},
				Returns: "object",
			},
			{
				ID: "vault.get_tags", Name: "Get Tags",
				Description: "Read the tags attached to a note",
				Parameters:  []types.Parameter{pathParam},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a vault operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	var granted []string
	if appCtx != nil {
		granted = appCtx.Scopes
	}
	proxy := capability.New(p.store, scopes.New(granted), p.oracle)

	switch toolID {
	case "vault.read":
		return p.read(ctx, proxy, params)
	case "vault.write":
		return p.write(ctx, proxy, params)
	case "vault.append":
		return p.append(ctx, proxy, params)
	case "vault.delete":
		return p.delete(ctx, proxy, params)
	case "vault.move":
		return p.move(ctx, proxy, params)
	case "vault.rename":
		return p.rename(ctx, proxy, params)
	case "vault.list":
		return p.list(ctx, proxy, params)
	case "vault.exists":
		return p.exists(ctx, proxy, params)
	case "vault.search":
		return p.search(ctx, proxy, params)
	case "vault.bulk_delete":
		return p.bulkDelete(ctx, proxy, params)
	case "vault.get_frontmatter":
		return p.getFrontmatter(ctx, proxy, params)
	case "vault.set_frontmatter":
		return p.setFrontmatter(ctx, proxy, params)
	case "vault.get_tags":
		return p.getTags(ctx, proxy, params)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) read(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	note, err := proxy.Read(ctx, path)
	if err != nil {
		return failure(err.Error())
	}
	return success(note)
}

func (p *Provider) write(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	content, err := stringParam(params, "content")
	if err != nil {
		return failure(err.Error())
	}
	if err := proxy.Write(ctx, path, content); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "written": true})
}

func (p *Provider) append(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	content, err := stringParam(params, "content")
	if err != nil {
		return failure(err.Error())
	}
	if err := proxy.Append(ctx, path, content); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "appended": true})
}

func (p *Provider) delete(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	if err := proxy.Delete(ctx, path); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "deleted": true})
}

func (p *Provider) move(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	src, err := stringParam(params, "source")
	if err != nil {
		return failure(err.Error())
	}
	dst, err := stringParam(params, "destination")
	if err != nil {
		return failure(err.Error())
	}
	if err := proxy.Move(ctx, src, dst); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"source": src, "destination": dst, "moved": true})
}

func (p *Provider) rename(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	name, err := stringParam(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	if err := proxy.Rename(ctx, path, name); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "name": name, "renamed": true})
}

func (p *Provider) list(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	dir, _ := params["directory"].(string)
	files, err := proxy.List(ctx, dir)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"directory": dir, "files": files, "count": len(files)})
}

func (p *Provider) exists(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	present, err := proxy.Exists(ctx, path)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "exists": present})
}

func (p *Provider) search(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return failure(err.Error())
	}
	matches, err := proxy.Search(ctx, query)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"query": query, "matches": matches, "count": len(matches)})
}

func (p *Provider) bulkDelete(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	pattern, err := stringParam(params, "pattern")
	if err != nil {
		return failure(err.Error())
	}
	live, _ := params["live"].(bool)
	report, err := proxy.BulkDelete(ctx, pattern, !live)
	if err != nil {
		return failure(err.Error())
	}
	return success(report)
}

func (p *Provider) getFrontmatter(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	fm, err := proxy.GetFrontmatter(ctx, path)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "frontmatter": fm})
}

func (p *Provider) setFrontmatter(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	fm, ok := params["frontmatter"].(map[string]interface{})
	if !ok {
		return failure("frontmatter parameter required")
	}
	if err := proxy.SetFrontmatter(ctx, path, fm); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "updated": true})
}

func (p *Provider) getTags(ctx context.Context, proxy *capability.Proxy, params map[string]interface{}) (*types.Result, error) {
	path, err := stringParam(params, "path")
	if err != nil {
		return failure(err.Error())
	}
	tags, err := proxy.GetTags(ctx, path)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"path": path, "tags": tags})
}

// Helper functions
func stringParam(params map[string]interface{}, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s parameter required", key)
	}
	return value, nil
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
