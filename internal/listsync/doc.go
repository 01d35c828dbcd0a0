// Package listsync turns fetched dramas, a search filter and connectivity
// into a sectioned Snapshot and emits the minimal Changeset between
// consecutive snapshots to a Renderer.
//
// An Engine is confined to a single goroutine (the main loop); it does no
// locking of its own.
package listsync
