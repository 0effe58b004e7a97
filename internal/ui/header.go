package ui

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/catalog"
)

// renderHeader renders the status line: name, API base, load state, error
// marker and last refresh time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("stockroom", styles.Logo)}
	if m.apiBase != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiBase, 40), styles.MutedText))
	}

	snap := m.snapshot
	switch {
	case snap.Loading || m.ctrl.Busy():
		parts = append(parts, bg.Render(m.spinner.View()+" Syncing", styles.WarningText))
	case snap.LastError == nil && snap.HasData:
		parts = append(parts, bg.Render("● OK", styles.SuccessText))
	}

	if snap.LastError != nil {
		label := "● " + classifyError(snap.LastError)
		if snap.IsOffline() {
			label = "● OFFLINE"
		}
		parts = append(parts, bg.Render(label, styles.DangerText))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated", styles.FaintText)+bg.Space()+
			bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}

// classifyError turns a refresh error into a short header label.
func classifyError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "TIMEOUT"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "UNREACHABLE"
	}
	if code := catalog.StatusCode(err); code != 0 {
		return fmt.Sprintf("HTTP %d", code)
	}
	return "ERROR"
}

// renderCommandBar renders the key hints for the focused pane.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.focus {
	case paneForm:
		commands = []cmd{
			{"tab", "Next"},
			{"shift+tab", "Prev"},
			{"ctrl+s", "Save"},
			{"esc", "Table"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"n", "New"},
			{"r", "Refresh"},
			{"tab", "Form"},
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

// truncateMiddle shortens s in the middle, keeping more of the end.
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
