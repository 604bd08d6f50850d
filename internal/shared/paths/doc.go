// Package paths provides vault-relative path validation and normalization.
//
// Every path that reaches the document store must pass through Normalize
// first. The vault is addressed by forward-slash relative paths; anything
// that could escape the vault root (absolute paths, drive letters, `..`
// traversal, null bytes) is rejected before any store call is attempted.
//
// # Usage
//
//	import "github.com/notevault/backend/internal/shared/paths"
//
//	clean, err := paths.Normalize(userSupplied)
//	if err != nil {
//	    // reject before touching the store
//	}
package paths
