// Package synccmd applies a single version string across a project's
// manifest files.
//
// A [Synchronizer] owns an ordered set of target manifests underneath a base
// path. [Synchronizer.Sync] rewrites each target's version declaration in
// order, stopping at the first failure, and [Synchronizer.Status] reports
// each target's currently declared version without modifying anything.
// Progress is published to subscribers as events, which front ends such as
// the terminal UI consume.
package synccmd
