package sandbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/notevault/backend/internal/capability"
)

func newTestRuntime(t *testing.T, cfg Config, namespaces map[string][]capability.Binding) *Runtime {
	t.Helper()
	r, err := New(cfg, namespaces)
	if err != nil {
		t.Fatalf("Failed to create runtime: %v", err)
	}
	return r
}

func TestExecuteReturnValues(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   interface{}
	}{
		{"arithmetic", "return 1 + 2", int64(3)},
		{"string", "return 'hello'.toUpperCase()", "HELLO"},
		{"boolean", "return 2 > 1", true},
		{"no return", "const x = 42;", nil},
		{"empty script", "", nil},
		{"explicit undefined", "return undefined", nil},
		{"explicit null", "return null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRuntime(t, DefaultConfig(), nil)
			result := r.Execute(context.Background(), tt.script)

			if !result.OK() {
				t.Fatalf("Execute() failed: %s", result.Error)
			}
			if result.Value != tt.want {
				t.Errorf("Execute() value = %v (%T), want %v", result.Value, result.Value, tt.want)
			}
		})
	}
}

func TestExecuteObjectResult(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	result := r.Execute(context.Background(), "return {a: 1, b: ['x', 'y']}")

	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	obj, ok := result.Value.(map[string]interface{})
	if !ok {
		t.Fatalf("value should be a map, got %T", result.Value)
	}
	if obj["a"] != int64(1) {
		t.Errorf("a = %v, want 1", obj["a"])
	}
	arr, ok := obj["b"].([]interface{})
	if !ok || len(arr) != 2 || arr[0] != "x" || arr[1] != "y" {
		t.Errorf("b = %v, want [x y]", obj["b"])
	}
}

func TestExecuteThrownError(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantMsg string
	}{
		{"error object", `throw new Error("boom")`, "boom"},
		{"plain string", `throw "raw failure"`, "raw failure"},
		{"type error at runtime", `null.anything`, "null"},
		{"custom object with message", `throw {message: "custom shape"}`, "custom shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRuntime(t, DefaultConfig(), nil)
			result := r.Execute(context.Background(), tt.script)

			if result.OK() {
				t.Fatalf("Execute() should fail, got value %v", result.Value)
			}
			if !contains(result.Error, tt.wantMsg) {
				t.Errorf("error %q should contain %q", result.Error, tt.wantMsg)
			}
		})
	}
}

func TestExecuteTimeoutTerminatesTightLoop(t *testing.T) {
	r := newTestRuntime(t, Config{Timeout: 100 * time.Millisecond}, nil)

	start := time.Now()
	result := r.Execute(context.Background(), "let i = 0; while (true) { i++; }")
	elapsed := time.Since(start)

	if result.OK() {
		t.Fatal("infinite loop should fail")
	}
	if !contains(result.Error, "timed out") {
		t.Errorf("error should mention timeout, got %q", result.Error)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout enforcement took %s, want bounded overhead over 100ms", elapsed)
	}
}

func TestExecuteContextCancellation(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	result := r.Execute(ctx, "while (true) {}")
	if result.OK() {
		t.Fatal("cancelled execution should fail")
	}
	if !contains(result.Error, "cancelled") {
		t.Errorf("error should mention cancellation, got %q", result.Error)
	}
}

func TestConsoleCaptureOrder(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	script := `
		console.log('first');
		console.warn('second');
		console.error('third');
		console.info('fourth', {n: 1});
		return true;
	`

	result := r.Execute(context.Background(), script)
	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}

	wantLevels := []string{"log", "warn", "error", "info"}
	wantMessages := []string{"first", "second", "third", `fourth {"n":1}`}
	if len(result.Logs) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(result.Logs))
	}
	for i, entry := range result.Logs {
		if entry.Level != wantLevels[i] {
			t.Errorf("entry %d level = %s, want %s", i, entry.Level, wantLevels[i])
		}
		if entry.Message != wantMessages[i] {
			t.Errorf("entry %d message = %q, want %q", i, entry.Message, wantMessages[i])
		}
	}
}

func TestConsoleCapturedUpToFailure(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	result := r.Execute(context.Background(), `
		console.log('before the crash');
		throw new Error('crash');
	`)

	if result.OK() {
		t.Fatal("script should fail")
	}
	if len(result.Logs) != 1 || result.Logs[0].Message != "before the crash" {
		t.Errorf("logs up to the failure point should be preserved, got %v", result.Logs)
	}
}

func TestDangerousGlobalsUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"require", "return require('fs')"},
		{"process", "return process.exit(1)"},
		{"fetch", "return fetch('http://example.com')"},
		{"XMLHttpRequest", "return new XMLHttpRequest()"},
		{"eval", "return eval('1+1')"},
		{"function constructor", "return Function.prototype.constructor('return 1')()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRuntime(t, DefaultConfig(), nil)
			result := r.Execute(context.Background(), tt.script)
			if result.OK() && result.Value != nil {
				t.Errorf("dangerous global produced a value: %v", result.Value)
			}
		})
	}
}

func TestTimersAreNoops(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	result := r.Execute(context.Background(), `
		setTimeout(() => { throw new Error('should never run'); }, 1);
		setInterval(() => {}, 1);
		return 'done';
	`)
	if !result.OK() || result.Value != "done" {
		t.Errorf("timer no-ops should not affect execution, got %+v", result)
	}
}

func TestAwaitOnHostBinding(t *testing.T) {
	namespaces := map[string][]capability.Binding{
		"vault": {
			{Name: "read", Func: func(ctx context.Context, args []interface{}) (interface{}, error) {
				return map[string]interface{}{"content": "stored text"}, nil
			}},
		},
	}
	r := newTestRuntime(t, DefaultConfig(), namespaces)

	result := r.Execute(context.Background(), `
		const note = await vault.read('a.md');
		return note.content;
	`)
	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	if result.Value != "stored text" {
		t.Errorf("value = %v, want stored text", result.Value)
	}
}

func TestHostErrorIsCatchable(t *testing.T) {
	namespaces := map[string][]capability.Binding{
		"vault": {
			{Name: "read", Func: func(ctx context.Context, args []interface{}) (interface{}, error) {
				return nil, fmt.Errorf("note not found: %v", args[0])
			}},
		},
	}
	r := newTestRuntime(t, DefaultConfig(), namespaces)

	result := r.Execute(context.Background(), `
		try {
			await vault.read('missing.md');
			return 'unreachable';
		} catch (e) {
			return 'caught: ' + e.message;
		}
	`)
	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	got, _ := result.Value.(string)
	if !contains(got, "note not found") {
		t.Errorf("guest should observe the host message, got %q", got)
	}
}

func TestHostArgumentsRoundTrip(t *testing.T) {
	var seen []interface{}
	namespaces := map[string][]capability.Binding{
		"vault": {
			{Name: "write", Func: func(ctx context.Context, args []interface{}) (interface{}, error) {
				seen = args
				return nil, nil
			}},
		},
	}
	r := newTestRuntime(t, DefaultConfig(), namespaces)

	result := r.Execute(context.Background(), `await vault.write('a.md', 'body', {live: true});`)
	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	if len(seen) != 3 || seen[0] != "a.md" || seen[1] != "body" {
		t.Fatalf("host saw args %v", seen)
	}
	opts, ok := seen[2].(map[string]interface{})
	if !ok || opts["live"] != true {
		t.Errorf("options object should export as a map, got %v", seen[2])
	}
}

func TestPendingPromiseReportsFailure(t *testing.T) {
	r := newTestRuntime(t, Config{Timeout: 200 * time.Millisecond}, nil)
	result := r.Execute(context.Background(), "return await new Promise(() => {});")

	if result.OK() {
		t.Fatal("a never-settling promise must not succeed")
	}
}

func TestNonSerializableValueDegrades(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	result := r.Execute(context.Background(), "return function named() {};")

	if !result.OK() {
		t.Fatalf("Execute() failed: %s", result.Error)
	}
	if _, ok := result.Value.(string); !ok {
		t.Errorf("non-serializable value should degrade to a string, got %T", result.Value)
	}
}

func TestStackOverflowReported(t *testing.T) {
	r := newTestRuntime(t, DefaultConfig(), nil)
	result := r.Execute(context.Background(), "function f() { return f(); } return f();")

	if result.OK() {
		t.Fatal("unbounded recursion should fail")
	}
}

func TestEngineLoadIsSingleFlight(t *testing.T) {
	var wg sync.WaitGroup
	engines := make([]*Engine, 8)
	for i := 0; i < len(engines); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			eng, err := loadEngine()
			if err != nil {
				t.Errorf("loadEngine() error = %v", err)
				return
			}
			engines[i] = eng
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(engines); i++ {
		if engines[i] != engines[0] {
			t.Fatal("all callers must share one engine handle")
		}
	}
}

func TestClampTimeout(t *testing.T) {
	tests := []struct {
		ms   int64
		want time.Duration
	}{
		{0, DefaultTimeout},
		{-50, DefaultTimeout},
		{5, MinTimeout},
		{999, MinTimeout},
		{1000, 1 * time.Second},
		{30000, 30 * time.Second},
		{120000, 120 * time.Second},
		{999999, MaxTimeout},
	}

	for _, tt := range tests {
		if got := ClampTimeout(tt.ms); got != tt.want {
			t.Errorf("ClampTimeout(%d) = %s, want %s", tt.ms, got, tt.want)
		}
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
