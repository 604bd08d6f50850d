package scripts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notevault/backend/internal/security/scopes"
)

// spyRecorder captures execution outcomes without a real registry.
type spyRecorder struct {
	statuses []string
	timeouts int
	denials  int
	lines    int
}

func (r *spyRecorder) RecordExecution(status string, duration time.Duration, consoleLines int) {
	r.statuses = append(r.statuses, status)
	r.lines += consoleLines
}

func (r *spyRecorder) RecordExecutionTimeout() { r.timeouts++ }
func (r *spyRecorder) RecordPermissionDenial() { r.denials++ }

func TestExecutorRecordsSuccess(t *testing.T) {
	rec := &spyRecorder{}
	exec := NewExecutor(newSpyStore(), nil).WithMetrics(rec)

	report := exec.ExecuteScript(context.Background(),
		"console.log('hi'); return 1;",
		Options{},
		scopes.New([]string{scopes.VaultExecute}),
	)

	require.True(t, report.Success)
	assert.Equal(t, []string{"success"}, rec.statuses)
	assert.Equal(t, 1, rec.lines)
	assert.Zero(t, rec.timeouts)
	assert.Zero(t, rec.denials)
}

func TestExecutorRecordsScriptError(t *testing.T) {
	rec := &spyRecorder{}
	exec := NewExecutor(newSpyStore(), nil).WithMetrics(rec)

	report := exec.ExecuteScript(context.Background(),
		"throw new Error('boom');",
		Options{},
		scopes.New([]string{scopes.VaultExecute}),
	)

	require.False(t, report.Success)
	assert.Equal(t, []string{"error"}, rec.statuses)
	assert.Zero(t, rec.timeouts)
}

func TestExecutorRecordsDenial(t *testing.T) {
	rec := &spyRecorder{}
	exec := NewExecutor(newSpyStore(), nil).WithMetrics(rec)

	report := exec.ExecuteScript(context.Background(),
		"return 1;",
		Options{},
		scopes.New([]string{scopes.VaultRead}),
	)

	require.False(t, report.Success)
	assert.Equal(t, []string{"denied"}, rec.statuses)
	assert.Equal(t, 1, rec.denials)
}

func TestMergeOptions(t *testing.T) {
	defaults := Options{TimeoutMs: 45000, MemoryLimit: 64 << 20}

	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{
			name: "unset options take configured defaults",
			in:   Options{},
			want: defaults,
		},
		{
			name: "caller values win",
			in:   Options{TimeoutMs: 5000, MemoryLimit: 32 << 20},
			want: Options{TimeoutMs: 5000, MemoryLimit: 32 << 20},
		},
		{
			name: "partial options fill only the gap",
			in:   Options{TimeoutMs: 5000},
			want: Options{TimeoutMs: 5000, MemoryLimit: 64 << 20},
		},
		{
			name: "negative values count as unset",
			in:   Options{TimeoutMs: -1, MemoryLimit: -1},
			want: defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeOptions(tt.in, defaults))
		})
	}
}

func TestWithDefaultsAppliedToExecution(t *testing.T) {
	exec := NewExecutor(newSpyStore(), nil).WithDefaults(Options{TimeoutMs: 45000})

	report := exec.ExecuteScript(context.Background(),
		"return 'ok';",
		Options{},
		scopes.New([]string{scopes.VaultExecute}),
	)

	require.True(t, report.Success)
	assert.Equal(t, int64(45000), exec.defaults.TimeoutMs)
}

func TestExecutorReportHasIDAndDuration(t *testing.T) {
	exec := NewExecutor(newSpyStore(), nil)

	report := exec.ExecuteScript(context.Background(),
		"return 'ok';",
		Options{},
		scopes.New([]string{scopes.VaultExecute}),
	)

	require.True(t, report.Success)
	assert.NotEmpty(t, report.ExecutionID)
	assert.GreaterOrEqual(t, report.DurationMs, 0.0)
	assert.Contains(t, report.Output, "Execution time:")
}
