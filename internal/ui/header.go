package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
	"github.com/five82/reel/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("reel", styles.Logo)}

	if _, offline := m.list.rows.Section(listsync.SectionOffline); offline {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	shown := len(contentItems(m.list.rows))
	count := fmt.Sprintf("%d", shown)
	if total := m.statusSnap.Dramas; total > 0 && total != shown {
		count = fmt.Sprintf("%d/%d", shown, total)
	}
	label := "Dramas:"
	if compact {
		label = "D:"
	}
	parts = append(parts, bg.Render(label, styles.MutedText)+bg.Space()+bg.Render(count, styles.Text))

	switch m.statusSnap.Origin {
	case state.OriginCache:
		parts = append(parts, bg.Render("cached", styles.WarningText))
	case state.OriginNetwork:
		parts = append(parts, bg.Render("live", styles.InfoText))
	}

	if m.refreshing {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("Refreshing", styles.AccentText))
	}

	if ts := formatTimestamp(m.statusSnap.LastSuccess, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if err := m.statusSnap.LastError; err != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		kind := classifyFetchError(err)
		if m.statusSnap.IsFailing() {
			kind = fmt.Sprintf("%s x%d", kind, m.statusSnap.ConsecutiveFailures)
		}
		parts = append(parts,
			bg.Render(kind, styles.DangerText)+bg.Space()+
				bg.Render(truncate(err.Error(), maxErr), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats t with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	out := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyFetchError returns a short label for a fetch failure.
func classifyFetchError(err error) string {
	if err == nil {
		return ""
	}
	switch linetv.KindOf(err) {
	case linetv.ErrConnection:
		return "UNREACHABLE"
	case linetv.ErrInvalidResponse:
		var apiErr *linetv.Error
		if errors.As(err, &apiErr) && apiErr.Status != 0 {
			return fmt.Sprintf("HTTP %d", apiErr.Status)
		}
		return "BAD RESPONSE"
	case linetv.ErrInvalidData:
		return "EMPTY"
	case linetv.ErrDecode:
		return "BAD DATA"
	case linetv.ErrInvalidURL:
		return "BAD URL"
	default:
		return "ERROR"
	}
}

// alertText is the message shown when a refresh fails.
func alertText(err error) string {
	if err == nil {
		return "The catalog could not be refreshed."
	}
	switch linetv.KindOf(err) {
	case linetv.ErrConnection:
		return "The catalog host could not be reached. Showing the last catalog."
	case linetv.ErrInvalidResponse:
		return fmt.Sprintf("The catalog host answered with %s.", classifyFetchError(err))
	case linetv.ErrInvalidData:
		return "The catalog host returned an empty response."
	case linetv.ErrDecode:
		return "The catalog could not be read."
	case linetv.ErrInvalidURL:
		return "The catalog address is invalid. Check base_url in config.toml."
	default:
		return err.Error()
	}
}

// renderCommandBar renders the key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.searching:
		commands = []cmd{
			{"enter", "Done"},
			{"esc", "Done"},
		}
	case m.detail != nil:
		commands = []cmd{
			{"esc", "Back"},
			{"j/k", "Scroll"},
			{"r", "Refresh"},
			{"L", "Logs"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"j/k", "Navigate"},
			{"enter", "Open"},
			{"r", "Refresh"},
			{"L", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, keeping more of the end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
