package sandbox

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// preludeSource hardens a fresh VM before any guest code runs: the Function
// constructor is disabled (it is eval in disguise) and the core prototypes
// are frozen against pollution.
const preludeSource = `(function() {
	'use strict';
	try {
		Object.defineProperty(Function.prototype, 'constructor', {
			value: function() { throw new TypeError('Function constructor is disabled'); },
			writable: false,
			configurable: false
		});
	} catch (e) {}
	[Object.prototype, Array.prototype, String.prototype,
	 Number.prototype, Boolean.prototype].forEach(function(proto) {
		try { Object.freeze(proto); } catch (e) {}
	});
})();`

// Engine is the process-wide interpreter handle: the compiled hardening
// prelude shared by every execution. Compiling once amortizes the cost
// across all executions; the handle is never torn down.
type Engine struct {
	prelude *goja.Program
}

var (
	engineOnce sync.Once
	engine     *Engine
	engineErr  error
)

// loadEngine compiles the shared prelude exactly once. Concurrent first
// callers block on the same initialization instead of duplicating it.
func loadEngine() (*Engine, error) {
	engineOnce.Do(func() {
		prog, err := goja.Compile("prelude.js", preludeSource, true)
		if err != nil {
			engineErr = fmt.Errorf("compile sandbox prelude: %w", err)
			return
		}
		engine = &Engine{prelude: prog}
	})
	return engine, engineErr
}

// newVM builds a hardened VM from the shared engine.
func (e *Engine) newVM() (*goja.Runtime, error) {
	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStackSize)

	if _, err := vm.RunProgram(e.prelude); err != nil {
		return nil, fmt.Errorf("run sandbox prelude: %w", err)
	}

	// No ambient module system, process handle, or network primitives.
	for _, name := range []string{
		"require", "process", "module", "exports",
		"fetch", "XMLHttpRequest", "WebSocket", "eval",
	} {
		if err := vm.Set(name, goja.Undefined()); err != nil {
			return nil, fmt.Errorf("strip global %s: %w", name, err)
		}
	}

	// Timers are no-ops: guest code cannot schedule work past its own
	// evaluation.
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	if err := vm.Set("setTimeout", noop); err != nil {
		return nil, err
	}
	if err := vm.Set("setInterval", noop); err != nil {
		return nil, err
	}

	return vm, nil
}
