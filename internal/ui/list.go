package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
)

// screen holds the rows a renderer has been given. Rows are rebuilt by
// replaying each changeset so they only ever change through it.
type screen struct {
	rows    listsync.Snapshot
	empty   bool
	applies int
}

func (s *screen) apply(msg applyMsg, log logrus.FieldLogger) {
	rows, err := listsync.Apply(s.rows, msg.next, msg.changes)
	if err != nil {
		log.WithError(err).Warn("changeset did not replay, taking snapshot as is")
		rows = msg.next
	}
	s.rows = rows
	s.applies++
}

func contentItems(s listsync.Snapshot) []listsync.Item {
	sec, ok := s.Section(listsync.SectionContent)
	if !ok {
		return nil
	}
	return sec.Items
}

func (m Model) logHeight() int {
	if !m.showLogs {
		return 0
	}
	return max(LogPaneMinHeight, m.height/3)
}

// listHeight is the number of rows available below the search box.
func (m Model) listHeight() int {
	return max(1, m.height-3-m.logHeight())
}

func (m Model) cells(width int, styles Styles) listsync.Cells[string] {
	return listsync.Cells[string]{
		Offline: func(listsync.OfflineItem) string {
			return styles.Banner.Width(width).Render("OFFLINE  showing the last saved catalog")
		},
		Summary: func(it listsync.SummaryItem) string {
			return summaryLine(it.Drama, width, styles)
		},
		Detail: func(it listsync.DetailItem) string {
			return detailBlock(it.Drama, width, styles)
		},
	}
}

// renderList draws the offline banner, the empty indicator and the window
// of dramas around the cursor.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	cells := m.cells(m.width, styles)

	var lines []string
	if sec, ok := m.list.rows.Section(listsync.SectionOffline); ok {
		for _, it := range sec.Items {
			lines = append(lines, m.renderCell(cells, it))
		}
	}
	if m.list.empty {
		msg := "No dramas yet"
		if m.search.Value() != "" {
			msg = fmt.Sprintf("No dramas match %q", m.search.Value())
		}
		lines = append(lines, styles.MutedText.Italic(true).Padding(0, 2).Render(msg))
	}

	items := contentItems(m.list.rows)
	avail := height - len(lines)
	if avail > 0 && len(items) > 0 {
		start := 0
		if m.cursor >= avail {
			start = m.cursor - avail + 1
		}
		end := min(len(items), start+avail)
		for i := start; i < end; i++ {
			line := m.renderCell(cells, items[i])
			if i == m.cursor && m.detail == nil {
				line = styles.Selected.Width(m.width).Render(stripStyles(items[i], m.width))
			}
			lines = append(lines, line)
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

func (m Model) renderCell(cells listsync.Cells[string], it listsync.Item) string {
	out, err := cells.Render(it)
	if err != nil {
		m.log.WithError(err).Warn("no cell for item")
		return ""
	}
	return out
}

// stripStyles renders a summary row as plain text so the selection style
// covers the whole line.
func stripStyles(it listsync.Item, width int) string {
	drama, ok := listsync.Selection(it)
	if !ok {
		return ""
	}
	plain := lipgloss.NewStyle()
	return summaryLine(drama, width, Styles{Text: plain, MutedText: plain, FaintText: plain, StarText: plain})
}

const (
	starsWidth = 10 // five glyphs, a space and the score
	viewsWidth = 18
	dateWidth  = 18
)

func summaryLine(d linetv.Drama, width int, styles Styles) string {
	nameWidth := max(12, width-starsWidth-viewsWidth-dateWidth-4)
	name := styles.Text.Render(fitWidth(d.Name, nameWidth))
	stars := styles.StarText.Render(fitWidth(d.RatingText(), starsWidth))
	views := styles.MutedText.Render(fitWidth(fmt.Sprintf("%12s views", d.ViewsText()), viewsWidth))
	date := styles.FaintText.Render(fitWidth(d.DateText(), dateWidth))
	return " " + name + " " + stars + " " + views + " " + date
}

// fitWidth pads or cuts s to exactly width terminal cells.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteString("…")
	used++
	return b.String() + strings.Repeat(" ", width-used)
}
