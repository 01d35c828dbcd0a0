package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/catalog"
	"github.com/five82/reel/internal/linetv"
)

type detailView struct {
	id       int
	drama    linetv.Drama
	handle   *catalog.Detail
	screen   screen
	viewport viewport.Model
}

func (m *Model) openDetail(drama linetv.Drama) {
	if m.catalog == nil {
		return
	}
	m.detailSeq++
	id := m.detailSeq
	d := &detailView{
		id:       id,
		drama:    drama,
		viewport: viewport.New(max(1, m.width), m.detailHeight()),
	}
	m.detail = d
	d.handle = m.catalog.OpenDetail(drama, m.bridge.screen(id))
	m.updateDetailViewport()
}

func (m *Model) closeDetail() {
	if m.detail == nil {
		return
	}
	if m.detail.handle != nil {
		m.detail.handle.Close()
	}
	m.detail = nil
}

func (m Model) detailHeight() int {
	return max(1, m.height-2-m.logHeight())
}

func (m *Model) updateDetailViewport() {
	if m.detail == nil {
		return
	}
	m.detail.viewport.Width = max(1, m.width)
	m.detail.viewport.Height = m.detailHeight()
	m.detail.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	styles := m.theme.Styles()
	cells := m.cells(m.width, styles)
	var parts []string
	for _, it := range m.detail.screen.rows.Items() {
		parts = append(parts, m.renderCell(cells, it))
	}
	m.detail.viewport.SetContent(strings.Join(parts, "\n"))
}

func (m Model) renderDetail() string {
	if m.detail.screen.applies == 0 {
		return lipgloss.NewStyle().Height(m.detailHeight()).Render(m.theme.Styles().MutedText.Render(" loading..."))
	}
	return m.detail.viewport.View()
}

// detailBlock renders the info panel for one drama.
func detailBlock(d linetv.Drama, width int, styles Styles) string {
	label := styles.MutedText.Width(10)
	row := func(name, value string, style lipgloss.Style) string {
		return "  " + label.Render(name) + style.Render(value)
	}
	thumb := d.Thumb
	if limit := width - 14; limit > 0 {
		thumb = truncateMiddle(thumb, limit)
	}
	lines := []string{
		"",
		"  " + styles.AccentText.Bold(true).Render(d.Name),
		"",
		row("Rating", d.RatingText(), styles.StarText),
		row("Views", d.ViewsText(), styles.Text),
		row("Released", d.DateText(), styles.Text),
		row("Thumb", thumb, styles.InfoText),
		row("ID", strconv.FormatInt(d.ID, 10), styles.FaintText),
		"",
		"  " + styles.FaintText.Render(fmt.Sprintf("esc to go back  r to refresh  drama #%d", d.ID)),
	}
	return strings.Join(lines, "\n")
}
