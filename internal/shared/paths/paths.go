package paths

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty indicates an empty or whitespace-only path.
	ErrEmpty = errors.New("path is empty")

	// ErrAbsolute indicates a POSIX or Windows absolute path.
	ErrAbsolute = errors.New("path must be relative to the vault root")

	// ErrTraversal indicates a `..` segment.
	ErrTraversal = errors.New("path must not contain traversal segments")

	// ErrNullByte indicates an embedded null byte.
	ErrNullByte = errors.New("path contains a null byte")
)

// Normalize validates a vault-relative path and returns its canonical form:
// forward slashes only, no repeated separators, no leading or trailing slash.
//
// Rejected inputs:
//   - empty or whitespace-only paths
//   - null-byte injection
//   - absolute paths, both POSIX (/etc/passwd) and Windows (C:\x, \\share)
//   - any `.` handling that walks upward (`..` segments)
func Normalize(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", ErrEmpty
	}
	if strings.ContainsRune(trimmed, 0) {
		return "", ErrNullByte
	}
	if isAbsolute(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrAbsolute, path)
	}

	// Unify separators before segment inspection.
	unified := strings.ReplaceAll(trimmed, "\\", "/")

	segments := make([]string, 0, strings.Count(unified, "/")+1)
	for _, seg := range strings.Split(unified, "/") {
		switch seg {
		case "", ".":
			// collapsed separator or no-op segment
		case "..":
			return "", fmt.Errorf("%w: %q", ErrTraversal, path)
		default:
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "", ErrEmpty
	}

	return strings.Join(segments, "/"), nil
}

// isAbsolute detects POSIX roots, Windows drive letters, and UNC shares.
func isAbsolute(p string) bool {
	if p[0] == '/' || p[0] == '\\' {
		return true
	}
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		return true
	}
	return false
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
