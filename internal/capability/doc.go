// Package capability builds the permission-checked function set exposed to
// untrusted guest scripts. Every operation validates its path arguments,
// checks the caller's scopes, and consults the protection-tag oracle before
// any store call; the guest only ever sees bound functions, never the store
// client or credentials.
//
// The exposed surface is an explicit, enumerated binding table (see
// Bindings) rather than anything reflective, so nothing reaches the sandbox
// that is not listed here by name.
package capability
