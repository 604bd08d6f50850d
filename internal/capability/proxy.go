package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/notevault/backend/internal/security/protection"
	"github.com/notevault/backend/internal/security/scopes"
	"github.com/notevault/backend/internal/shared/paths"
	"github.com/notevault/backend/internal/vault"
)

// Proxy binds vault operations to one caller's permission context. Build one
// per execution; it closes over the request's scopes and nothing mutable.
type Proxy struct {
	store  vault.Store
	perms  *scopes.Context
	oracle *protection.Oracle
}

// New creates a proxy for the given caller.
func New(store vault.Store, perms *scopes.Context, oracle *protection.Oracle) *Proxy {
	return &Proxy{store: store, perms: perms, oracle: oracle}
}

// checkPath normalizes a path argument, rejecting anything that could
// resolve outside the vault root.
func (p *Proxy) checkPath(path string) (string, error) {
	clean, err := paths.Normalize(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return clean, nil
}

// flags resolves the protection markers after path and scope checks pass.
// Hidden paths fail as not-found regardless of the operation class.
func (p *Proxy) flags(ctx context.Context, path, scope string) (string, protection.Flags, error) {
	clean, err := p.checkPath(path)
	if err != nil {
		return "", protection.Flags{}, err
	}
	if err := p.perms.Require(scope); err != nil {
		return "", protection.Flags{}, err
	}
	flags, err := p.oracle.Check(ctx, clean)
	if err != nil {
		return "", protection.Flags{}, fmt.Errorf("protection lookup: %w", err)
	}
	// Hidden paths surface the store's own not-found error so callers
	// cannot distinguish a hidden note from an absent one.
	if flags.Hidden {
		return "", protection.Flags{}, fmt.Errorf("%w: %s", vault.ErrNotFound, clean)
	}
	return clean, flags, nil
}

// guardRead admits read-class operations; only hidden blocks them.
func (p *Proxy) guardRead(ctx context.Context, path, scope string) (string, error) {
	clean, _, err := p.flags(ctx, path, scope)
	return clean, err
}

// guardWrite admits write-class operations; read-only paths refuse them.
func (p *Proxy) guardWrite(ctx context.Context, path string) (string, error) {
	clean, flags, err := p.flags(ctx, path, scopes.VaultWrite)
	if err != nil {
		return "", err
	}
	if flags.ReadOnly {
		return "", fmt.Errorf("%w: %s", protection.ErrReadOnly, clean)
	}
	return clean, nil
}

// guardDelete admits delete- and move-class operations; protected paths
// refuse them.
func (p *Proxy) guardDelete(ctx context.Context, path string) (string, error) {
	clean, flags, err := p.flags(ctx, path, scopes.VaultDelete)
	if err != nil {
		return "", err
	}
	if flags.Protected {
		return "", fmt.Errorf("%w: %s", protection.ErrProtected, clean)
	}
	return clean, nil
}

// visible reports whether a path may be surfaced in list/search results.
func (p *Proxy) visible(ctx context.Context, path string) bool {
	flags, err := p.oracle.Check(ctx, path)
	if err != nil {
		// Fail closed: a path whose protection we cannot determine is
		// not surfaced.
		return false
	}
	return !flags.Hidden
}

// IsPermissionDenied reports whether err is a scope failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, scopes.ErrPermissionDenied)
}

// IsProtectionViolation reports whether err is a read-only or protected
// tag failure.
func IsProtectionViolation(err error) bool {
	return errors.Is(err, protection.ErrReadOnly) || errors.Is(err, protection.ErrProtected)
}
