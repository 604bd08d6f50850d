// Package providers implements the tool providers exposed to agents.
//
// Each provider groups related tools behind a standardized interface and
// enforces the caller's granted scopes on every operation.
//
// Available Providers:
//   - Vaultops: Direct note operations (read, write, search, frontmatter)
//   - Scripts: Sandboxed JavaScript execution with scoped vault access
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and context
//
// Example Usage:
//
//	p := vaultops.NewProvider(store)
//	result, err := p.Execute(ctx, "vault.read", params, appCtx)
package providers
