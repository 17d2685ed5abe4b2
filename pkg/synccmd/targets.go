package synccmd

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// DefaultVersion is the version applied when no version is provided.
const DefaultVersion = "0.2.5"

// Target is a manifest file whose version declaration is kept in sync.
type Target struct {
	// Path is the target's path relative to the base path.
	Path string
}

// Key returns a stable snake_case identifier for the target, used in event
// payloads and log fields.
func (t Target) Key() string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.':
			return ' '
		default:
			return r
		}
	}, t.Path)

	return strcase.ToSnake(mapped)
}

// DefaultTargets returns the manifest set maintained by default: the Rust
// workspace manifests and the Python packaging metadata. Order is
// significant, targets are always processed in this order.
func DefaultTargets() []Target {
	return []Target{
		{Path: "vec-utils/Cargo.toml"},
		{Path: "vec-utils-py/Cargo.toml"},
		{Path: "vec-utils-py/pyproject.toml"},
	}
}
