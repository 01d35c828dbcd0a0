package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/reel/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogPaneLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) updateLogViewport() {
	if !m.showLogs || !m.ready {
		return
	}
	height := max(1, m.logHeight()-1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(max(1, m.width), height)
	}
	m.logViewport.Width = max(1, m.width)
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.SurfaceAlt))

	if len(m.logLines) == 0 {
		m.logViewport.SetContent(m.theme.Styles().FaintText.Render(" no log output yet"))
		return
	}
	m.logViewport.SetContent(strings.Join(logtail.ColorizeLines(m.logLines, m.theme.LogPalette()), "\n"))
	m.logViewport.GotoBottom()
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	title := styles.Header.Width(m.width).Render(
		styles.AccentText.Render("Log") + styles.Text.Render(" ") + styles.FaintText.Render(truncateMiddle(m.logPath, max(10, m.width-10))),
	)
	return title + "\n" + m.logViewport.View()
}
