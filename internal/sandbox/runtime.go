package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"

	"github.com/notevault/backend/internal/capability"
)

// Runtime executes one guest script against a hardened VM. Build one per
// execution; the expensive engine load is shared, the VM is not.
type Runtime struct {
	vm  *goja.Runtime
	cfg Config

	logs []LogEntry

	// callCtx is the context host capability calls run under; set for the
	// duration of Execute. Executions are sequential per Runtime, so no
	// locking is needed.
	callCtx context.Context
}

// New builds a runtime with the given limits and capability namespaces.
// Each namespace becomes a guest global (e.g. "vault", "plugins") holding
// the bound functions by name, and nothing else.
func New(cfg Config, namespaces map[string][]capability.Binding) (*Runtime, error) {
	eng, err := loadEngine()
	if err != nil {
		return nil, err
	}
	vm, err := eng.newVM()
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		vm:      vm,
		cfg:     cfg.withDefaults(),
		callCtx: context.Background(),
	}

	if err := r.installConsole(); err != nil {
		return nil, err
	}
	// The wrapper references vault and plugins by name, so both globals
	// must exist even when a namespace has no bindings.
	for _, required := range []string{"vault", "plugins"} {
		if _, ok := namespaces[required]; !ok {
			if err := r.installNamespace(required, nil); err != nil {
				return nil, err
			}
		}
	}
	for name, bindings := range namespaces {
		if err := r.installNamespace(name, bindings); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Execute runs one script to completion or failure. It never panics and
// never returns a raw engine error; every outcome is a normalized Result.
func (r *Runtime) Execute(ctx context.Context, script string) (result *Result) {
	start := time.Now()
	result = &Result{}

	// Engine faults (including host-side panics crossing the VM boundary)
	// become failure results, never a crash of the host process.
	defer func() {
		if rec := recover(); rec != nil {
			result.Error = fmt.Sprintf("sandbox fault: %v", rec)
			result.Logs = r.logs
			result.Duration = time.Since(start)
		}
	}()

	r.callCtx = ctx
	defer func() { r.callCtx = context.Background() }()
	r.logs = nil

	// The guest body runs inside an async function expression with the
	// injected globals rebound as parameters, so top-level await and
	// return behave naturally.
	wrapped := "(async (vault, plugins, console) => {\n" + script + "\n})(vault, plugins, console);"

	// The timeout is enforced by interrupting the interpreter, not by a
	// cooperative check: a tight loop in guest code still terminates.
	done := make(chan struct{})
	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()
	go func() {
		select {
		case <-timer.C:
			r.vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			r.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := r.vm.RunString(wrapped)
	close(done)
	r.vm.ClearInterrupt()

	result.Duration = time.Since(start)
	result.Logs = r.logs

	if err != nil {
		result.Error = normalizeError(err, r.cfg.Timeout.String())
		result.TimedOut = isTimeout(err)
		return result
	}

	r.settle(val, result)
	return result
}

// settle resolves the wrapper promise into the result. Host capability
// calls block the VM goroutine, so by the time RunString returns the job
// queue has drained and the promise is settled unless the guest awaited a
// promise nothing will ever resolve.
func (r *Runtime) settle(val goja.Value, result *Result) {
	promise, ok := val.Export().(*goja.Promise)
	if !ok {
		result.Value = r.exportValue(val)
		return
	}
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		result.Value = r.exportValue(promise.Result())
	case goja.PromiseStateRejected:
		result.Error = describeThrown(promise.Result())
	default:
		result.Error = "script did not complete: execution is suspended on a promise that will never settle"
	}
}

// exportValue converts a guest value to JSON-safe Go data. Values that
// cannot be represented as JSON (functions, symbols, cycles) degrade to the
// engine's string rendition rather than failing the execution.
func (r *Runtime) exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	exported := val.Export()
	if _, err := sonic.Marshal(exported); err != nil {
		return val.String()
	}
	return exported
}

// installConsole wires the console shim: log/warn/error/info append to the
// in-memory buffer in call order and write nowhere else.
func (r *Runtime) installConsole() error {
	console := r.vm.NewObject()
	for _, level := range []string{"log", "warn", "error", "info"} {
		level := level
		err := console.Set(level, func(call goja.FunctionCall) goja.Value {
			r.logs = append(r.logs, LogEntry{
				Level:   level,
				Message: r.formatArgs(call.Arguments),
			})
			return goja.Undefined()
		})
		if err != nil {
			return err
		}
	}
	return r.vm.Set("console", console)
}

// formatArgs renders console arguments the way a developer expects:
// strings verbatim, everything else as JSON where possible.
func (r *Runtime) formatArgs(args []goja.Value) string {
	msg := ""
	for i, arg := range args {
		if i > 0 {
			msg += " "
		}
		if s, ok := arg.Export().(string); ok {
			msg += s
			continue
		}
		if goja.IsUndefined(arg) || goja.IsNull(arg) {
			msg += arg.String()
			continue
		}
		if encoded, err := sonic.Marshal(arg.Export()); err == nil {
			msg += string(encoded)
		} else {
			msg += arg.String()
		}
	}
	return msg
}

// installNamespace exposes a binding table as one guest global. Each entry
// becomes a plain callable; a host error surfaces as a catchable guest
// exception carrying the host message.
func (r *Runtime) installNamespace(name string, bindings []capability.Binding) error {
	obj := r.vm.NewObject()
	for _, b := range bindings {
		b := b
		err := obj.Set(b.Name, func(call goja.FunctionCall) goja.Value {
			args := make([]interface{}, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = a.Export()
			}
			out, err := b.Func(r.callCtx, args)
			if err != nil {
				panic(r.vm.NewGoError(err))
			}
			if out == nil {
				return goja.Undefined()
			}
			return r.vm.ToValue(out)
		})
		if err != nil {
			return err
		}
	}
	return r.vm.Set(name, obj)
}
