package ui

import "time"

// Terminal width threshold below which the header drops labels.
const LayoutCompactWidth = 100

// Log pane limits.
const (
	LogPaneLines     = 400
	LogPaneMinHeight = 6
)

// DefaultUIInterval is how often status and the log pane refresh.
const DefaultUIInterval = time.Second
