// Package app is the composition root for reel.
//
// # Overview
//
// This package wires configuration, logging, the offline cache, the catalog
// client, the connectivity monitor and the main loop into a catalog
// controller, then hands the controller to a front end. It owns startup and
// shutdown order; business logic lives in the domain packages.
//
// # Entry Points
//
//   - Run: the interactive TUI. Connectivity comes from a TCP prober, logs go
//     to the configured log file because the terminal belongs to the UI, and
//     the catalog is refreshed once on start.
//   - Fetch: one headless sync for scripts. Connectivity is pinned to online
//     and flipped to offline only when the host cannot be reached, so the
//     report shows exactly what the list would show.
//   - InspectCache: reads the offline cache without touching the network.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read ~/.config/reel/config.toml
//	       ├─────> logging.New()          logrus to the log file
//	       ├─────> offline.Open()         sqlite, memory or redis store
//	       ├─────> linetv.NewClient()     catalog HTTP client
//	       ├─────> mainloop.New()         serialized list state
//	       ├─────> connectivity.Monitor   prober-backed reachability
//	       ├─────> catalog.New()          engine + cache + fetch glue
//	       ├─────> ctrl.Start()           seed from cache, render once
//	       └─────> ui program             Bubble Tea (blocks)
//
// # Error Handling
//
// Setup failures (bad config, unusable cache, log file) are returned. Fetch
// failures never are: the TUI shows an alert and keeps the last catalog, and
// Fetch records the failure in its Report.
//
// # Shutdown
//
// Deferred in reverse order of construction: the controller stops following
// connectivity, the monitor stops probing, the loop drains and the cache and
// log file are closed.
package app
