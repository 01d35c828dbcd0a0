// Package state keeps fetch bookkeeping shared between the catalog
// controller and the terminal UI.
//
// # Overview
//
// The controller records every fetch it starts and finishes; the UI header
// reads a Snapshot on each redraw to show where the list came from, when it
// was last refreshed and whether refreshes keep failing.
//
// # Concurrency Model
//
// Store uses a readers-writer lock. Writers run on the main loop and on
// fetch completion; readers run on the Bubble Tea goroutine. The lock is
// held only while copying.
//
// # Update Semantics
//
//	store.Begin()            → InFlight++
//	store.Finish(n, nil)     → InFlight--, Origin = network, Dramas = n,
//	                           LastSuccess = LastUpdated = now, failures reset
//	store.Finish(0, err)     → InFlight--, LastError = err, failures++,
//	                           catalog fields unchanged
//	store.Seeded(n)          → Origin = cache, Dramas = n
//
// A failed fetch never clears the catalog fields, matching the list itself,
// which keeps showing the last good data.
//
// The zero Store is ready to use.
package state
