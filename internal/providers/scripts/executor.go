package scripts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notevault/backend/internal/capability"
	"github.com/notevault/backend/internal/logging"
	"github.com/notevault/backend/internal/sandbox"
	"github.com/notevault/backend/internal/security/protection"
	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/shared/utils"
	"github.com/notevault/backend/internal/vault"
)

// Options are the caller-supplied execution knobs. Both are optional;
// out-of-range timeouts are clamped, never rejected.
type Options struct {
	TimeoutMs   int64
	MemoryLimit int64
}

// Report is the stable response shape returned for every execution.
type Report struct {
	ExecutionID string      `json:"execution_id"`
	Success     bool        `json:"success"`
	Value       interface{} `json:"value,omitempty"`
	Error       string      `json:"error,omitempty"`
	Logs        []string    `json:"logs"`
	DurationMs  float64     `json:"duration_ms"`
	Output      string      `json:"output"`
}

// Recorder receives execution outcomes for monitoring. Satisfied by
// *monitoring.Metrics.
type Recorder interface {
	RecordExecution(status string, duration time.Duration, consoleLines int)
	RecordExecutionTimeout()
	RecordPermissionDenial()
}

// Executor is the public entry point for sandboxed script execution.
type Executor struct {
	store    vault.Store
	oracle   *protection.Oracle
	logger   *logging.Logger
	metrics  Recorder
	defaults Options
}

// NewExecutor creates an executor over the given store.
func NewExecutor(store vault.Store, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Executor{
		store:  store,
		oracle: protection.NewOracle(store),
		logger: logger,
	}
}

// WithMetrics attaches a metrics recorder and returns the executor.
func (e *Executor) WithMetrics(rec Recorder) *Executor {
	e.metrics = rec
	return e
}

// WithDefaults sets the server-side limits applied when a caller omits
// them. Caller-supplied values still win, and still pass the clamp.
func (e *Executor) WithDefaults(defaults Options) *Executor {
	e.defaults = defaults
	return e
}

// mergeOptions fills unset caller options from the configured defaults.
func mergeOptions(opts, defaults Options) Options {
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = defaults.TimeoutMs
	}
	if opts.MemoryLimit <= 0 {
		opts.MemoryLimit = defaults.MemoryLimit
	}
	return opts
}

// ExecuteScript runs one untrusted script under the caller's permission
// context. It always returns a well-formed report; no sandbox failure mode
// escapes as an error or panic.
//
// The vault:execute scope is checked before the interpreter is touched: a
// caller without it never reaches the engine or the capability proxy.
func (e *Executor) ExecuteScript(ctx context.Context, script string, opts Options, perms *scopes.Context) *Report {
	report := &Report{
		ExecutionID: uuid.NewString(),
		Logs:        []string{},
	}
	start := time.Now()

	if err := perms.Require(scopes.VaultExecute); err != nil {
		report.Error = err.Error()
		report.DurationMs = durationMs(start)
		report.Output = shapeOutput(report)
		if e.metrics != nil {
			e.metrics.RecordPermissionDenial()
			e.metrics.RecordExecution("denied", time.Since(start), 0)
		}
		return report
	}

	opts = mergeOptions(opts, e.defaults)
	cfg := sandbox.Config{
		Timeout:     sandbox.ClampTimeout(opts.TimeoutMs),
		MemoryLimit: opts.MemoryLimit,
	}

	proxy := capability.New(e.store, perms, e.oracle)
	runtime, err := sandbox.New(cfg, map[string][]capability.Binding{
		"vault":   proxy.Bindings(),
		"plugins": pluginBindings(),
	})
	if err != nil {
		report.Error = fmt.Sprintf("sandbox initialization failed: %v", err)
		report.DurationMs = durationMs(start)
		report.Output = shapeOutput(report)
		e.logger.Error("sandbox init failed", zap.String("execution_id", report.ExecutionID), zap.Error(err))
		return report
	}

	result := runtime.Execute(ctx, script)

	// Duration is measured here, independent of the adapter's own timing,
	// so it is present and monotonic on every path.
	report.DurationMs = durationMs(start)
	report.Success = result.OK()
	report.Value = result.Value
	report.Error = result.Error
	report.Logs = formatLogs(result.Logs)
	report.Output = shapeOutput(report)

	if e.metrics != nil {
		status := "success"
		switch {
		case result.TimedOut:
			status = "timeout"
			e.metrics.RecordExecutionTimeout()
		case !report.Success:
			status = "error"
		}
		e.metrics.RecordExecution(status, time.Since(start), len(report.Logs))
	}

	// Logs carry the script hash, never the source.
	e.logger.Info("script execution finished",
		zap.String("execution_id", report.ExecutionID),
		zap.String("script_hash", utils.ShortHash(utils.ScriptHash(script))),
		zap.Bool("success", report.Success),
		zap.Float64("duration_ms", report.DurationMs),
		zap.Int("log_lines", len(report.Logs)),
	)
	return report
}

// pluginBindings is the `plugins` guest namespace: discovery only, no
// side effects.
func pluginBindings() []capability.Binding {
	return []capability.Binding{
		{Name: "list", Func: func(ctx context.Context, args []interface{}) (interface{}, error) {
			return []string{"vault"}, nil
		}},
	}
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func formatLogs(entries []sandbox.LogEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s", entry.Level, entry.Message))
	}
	return lines
}

// shapeOutput renders the human-readable report: the result (or error)
// first, then labeled console and timing segments.
func shapeOutput(r *Report) string {
	var b strings.Builder

	switch {
	case !r.Success && r.Error != "":
		b.WriteString("Error: ")
		b.WriteString(r.Error)
	case r.Value == nil:
		b.WriteString("Script completed with no return value.")
	default:
		b.WriteString("Result:\n")
		b.WriteString(renderValue(r.Value))
	}

	if len(r.Logs) > 0 {
		b.WriteString("\n\nConsole output:\n")
		b.WriteString(strings.Join(r.Logs, "\n"))
	}

	fmt.Fprintf(&b, "\n\nExecution time: %.1fms", r.DurationMs)
	return b.String()
}

func renderValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	pretty, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(pretty)
}
