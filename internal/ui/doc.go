// Package ui provides the terminal interface for browsing the drama catalog.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never owns list state: the catalog
// controller reconciles engines on the main loop and hands each result to a
// renderer obtained from a Bridge. The bridge turns renderer calls into
// program messages, and the model replays every changeset against the rows it
// already holds, so the rows on screen only ever change through a changeset.
//
// # Package Structure
//
//   - app.go: Model, key handling, layout composition and Run
//   - bridge.go: renderer adapter from the main loop into the program
//   - list.go: catalog rows, offline banner and empty indicator
//   - detail.go: detail screen for one drama
//   - header.go: status bar and command bar
//   - logs.go: optional log pane tailing the log file
//   - help.go: help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Screens
//
//   - List: every drama matching the search text, with an offline banner
//     while the network is down
//   - Detail: one drama, following connectivity until closed with esc
//
// # Event Flow
//
//  1. NewProgram builds the model and attaches the bridge to the program
//  2. The controller seeds the list from the offline cache and renders it
//  3. Key presses call Refresh, Search or OpenDetail on the controller
//  4. Renderer output arrives as applyMsg and emptyMsg and is replayed
//  5. A ticker refreshes the status header and the log pane
//
// # Preferences
//
// The theme (cycled with T) and the log pane toggle (L) are saved to the
// prefs file as soon as they change.
package ui
