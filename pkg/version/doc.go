// Package version provides version information for the application.
//
// This package defines version variables and utilities for accessing version
// information throughout the application. It centralizes version management
// to ensure consistent version reporting across all components. Values can
// be overridden at build time via ldflags, and fall back to data recorded in
// the binary's build info.
package version
