// Package manifest models package manifest files (e.g. Cargo.toml,
// pyproject.toml) as ordered lines which retain their original terminators.
//
// It supports locating and rewriting a manifest's version declaration while
// leaving every other byte of the file intact, so that a version bump
// produces a minimal diff.
package manifest
