// Package types provides shared data structures for the NoteVault backend.
//
// This package defines the tool-provider contract used across all backend
// components:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Per-call execution context (caller identity and granted scopes)
//   - Result: Standard operation result
//
// Design: keep this package dependency-free so providers, the registry, and
// the HTTP layer can all import it without cycles.
package types
