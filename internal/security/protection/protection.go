// Package protection answers whether a vault path carries a protection
// marker. Markers are ordinary document tags with reserved names; the oracle
// consults the store's tag index and never caches across calls.
package protection

import (
	"context"
	"errors"
)

// Reserved tag names recognized as protection markers.
const (
	TagReadOnly  = "readonly"
	TagProtected = "protected"
	TagHidden    = "hidden"
)

// Flags reports the protection markers present on a path. Markers are
// independent: a note may be read-only and protected at once.
type Flags struct {
	// ReadOnly blocks write-class operations.
	ReadOnly bool
	// Protected blocks delete- and move-class operations.
	Protected bool
	// Hidden makes the path behave as if it does not exist.
	Hidden bool
}

// Violation errors, distinguishable from store errors. Hidden has no
// sentinel of its own: a hidden path must fail with the store's not-found
// error so its presence never leaks.
var (
	ErrReadOnly  = errors.New("document is read-only")
	ErrProtected = errors.New("document is protected from deletion")
)

// TagSource yields the tags attached to a path. A not-found store answer
// must surface as an empty tag set, not an error.
type TagSource interface {
	Tags(ctx context.Context, path string) ([]string, error)
}

// Oracle resolves protection levels from document tags.
type Oracle struct {
	source TagSource
}

// NewOracle builds an oracle over a tag source.
func NewOracle(source TagSource) *Oracle {
	return &Oracle{source: source}
}

// Check returns the protection markers on path.
func (o *Oracle) Check(ctx context.Context, path string) (Flags, error) {
	tags, err := o.source.Tags(ctx, path)
	if err != nil {
		return Flags{}, err
	}

	var flags Flags
	for _, tag := range tags {
		switch tag {
		case TagHidden:
			flags.Hidden = true
		case TagProtected:
			flags.Protected = true
		case TagReadOnly:
			flags.ReadOnly = true
		}
	}
	return flags, nil
}
