package scripts

import (
	"context"
	"fmt"

	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/shared/types"
)

// Provider exposes sandboxed script execution to the tool-dispatch layer.
type Provider struct {
	executor *Executor
}

// NewProvider wraps an executor as a tool provider.
func NewProvider(executor *Executor) *Provider {
	return &Provider{executor: executor}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "scripts",
		Name:        "Script Execution",
		Description: "Run JavaScript against the vault inside a resource-bounded sandbox",
		Category:    types.CategoryScripts,
		Capabilities: []string{
			"execute",
		},
		Tools: []types.Tool{
			{
				ID:          "scripts.execute",
				Name:        "Execute Script",
				Description: "Execute JavaScript with vault access; returns the value, console output, and timing",
				Parameters: []types.Parameter{
					{Name: "script", Type: "string", Description: "JavaScript source to run", Required: true},
					{Name: "timeout", Type: "number", Description: "Timeout in ms, clamped to [1000, 120000]", Required: false},
					{Name: "memory_limit", Type: "number", Description: "Memory ceiling in bytes (default 128 MiB)", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a scripts operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "scripts.execute":
		return p.execute(ctx, params, appCtx)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) execute(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	script, ok := params["script"].(string)
	if !ok {
		return failure("script parameter required")
	}

	opts := Options{}
	if timeout, ok := params["timeout"].(float64); ok {
		opts.TimeoutMs = int64(timeout)
	}
	if limit, ok := params["memory_limit"].(float64); ok {
		opts.MemoryLimit = int64(limit)
	}

	var granted []string
	if appCtx != nil {
		granted = appCtx.Scopes
	}

	report := p.executor.ExecuteScript(ctx, script, opts, scopes.New(granted))

	data := map[string]interface{}{
		"execution_id": report.ExecutionID,
		"success":      report.Success,
		"logs":         report.Logs,
		"duration_ms":  report.DurationMs,
		"output":       report.Output,
	}
	if report.Value != nil {
		data["value"] = report.Value
	}

	if !report.Success {
		msg := report.Error
		return &types.Result{Success: false, Data: data, Error: &msg}, nil
	}
	return &types.Result{Success: true, Data: data}, nil
}

// Helper functions
func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
