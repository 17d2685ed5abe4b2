// Package synctui provides a terminal user interface for version sync commands.
//
// This package implements a TUI layer for [github.com/macropower/versync/pkg/synccmd],
// offering interactive visual feedback for sync operations. It uses the Bubble
// Tea framework to provide a rich terminal experience with progress indicators,
// spinners, and formatted output.
package synctui
