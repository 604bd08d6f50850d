// Package sandbox runs untrusted guest scripts inside a resource-bounded
// goja interpreter. Guest code reaches the host only through the capability
// bindings injected as the `vault` and `plugins` globals; ambient network and
// filesystem primitives do not exist inside the VM.
//
// Safety properties the package guarantees:
//   - a wall-clock timeout terminates any script, including tight loops,
//     via the engine's interrupt mechanism (never a cooperative check);
//   - console output is captured to an in-memory buffer in emission order;
//   - every failure mode (guest exception, timeout, stack exhaustion,
//     engine fault) is normalized into a Result; nothing escapes as a
//     panic or raw error to the caller.
//
// The hardening prelude is compiled once per process behind a single-flight
// guard; each execution gets its own VM, so concurrent executions never
// share interpreter state.
package sandbox
