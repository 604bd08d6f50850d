// Package scopes implements the permission context consulted before every
// vault operation. Scopes use a `category:action` grammar with wildcard
// entries: `vault:*` grants every vault action and the bare `*` grants
// everything.
package scopes

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known scopes required by vault operations.
const (
	VaultRead    = "vault:read"
	VaultWrite   = "vault:write"
	VaultDelete  = "vault:delete"
	VaultExecute = "vault:execute"

	VaultAll = "vault:*"
	All      = "*"
)

// ErrPermissionDenied marks a scope-check failure. It is distinct from store
// errors so callers can surface the missing scope verbatim.
var ErrPermissionDenied = errors.New("permission denied")

// Context holds the caller's granted scope set for one request.
type Context struct {
	granted map[string]struct{}
}

// New builds a permission context from the caller's granted scopes.
func New(granted []string) *Context {
	set := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		set[strings.TrimSpace(s)] = struct{}{}
	}
	return &Context{granted: set}
}

// HasScope reports whether the granted set covers required, either exactly
// or through a wildcard in the same category.
func (c *Context) HasScope(required string) bool {
	if _, ok := c.granted[All]; ok {
		return true
	}
	if _, ok := c.granted[required]; ok {
		return true
	}
	if idx := strings.IndexByte(required, ':'); idx > 0 {
		wildcard := required[:idx] + ":*"
		if _, ok := c.granted[wildcard]; ok {
			return true
		}
	}
	return false
}

// Require returns a permission-denied error naming the missing scope when
// the granted set does not cover it.
func (c *Context) Require(required string) error {
	if c.HasScope(required) {
		return nil
	}
	return fmt.Errorf("%w: missing scope %q", ErrPermissionDenied, required)
}

// Granted returns the granted scopes in no particular order.
func (c *Context) Granted() []string {
	out := make([]string, 0, len(c.granted))
	for s := range c.granted {
		out = append(out, s)
	}
	return out
}
