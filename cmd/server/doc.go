// Package main is the entry point for the NoteVault backend server.
//
// This application serves the agent-facing tool API over a local note
// vault, including sandboxed script execution with scoped vault access.
//
// Architecture:
//
//	Agent client → Go Backend → Document-store REST API (vault)
//	                         → Embedded JS sandbox (scripted access)
//
// The server provides:
//   - REST API for tool discovery and execution
//   - Scope-enforced vault operations
//   - Sandboxed JavaScript execution against the vault
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - Defaults for development
//
// Usage:
//
//	PORT=8000 VAULT_URL=http://localhost:27123 ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
