package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/five82/stockroom/internal/catalog"
)

// column describes one table column. A zero width takes the remaining space.
type column struct {
	title string
	width int
	value func(catalog.Product) string
}

// columns returns the visible columns for the given inner width.
func columns(width int) []column {
	cols := []column{
		{title: "ID", width: 6, value: func(p catalog.Product) string { return p.ID.String() }},
		{title: "Name", value: func(p catalog.Product) string { return p.Name }},
		{title: "Price", width: 9, value: func(p catalog.Product) string { return fmt.Sprintf("%d", p.Price) }},
	}
	if width >= LayoutWideWidth*60/100 {
		cols = append(cols, column{title: "Description", width: width / 4, value: func(p catalog.Product) string { return p.Description }})
	}
	cols = append(cols, column{title: "Image", width: 16, value: func(p catalog.Product) string { return p.Image }})
	return cols
}

// renderTable renders the products pane.
func (m Model) renderTable(width, height int) string {
	focused := m.focus == paneTable
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	inner := width - 2

	title := fmt.Sprintf("Products (%d)", len(m.snapshot.Products))

	var content string
	switch {
	case len(m.snapshot.Products) > 0:
		content = m.renderRows(inner, height-2, bgColor)
	case !m.snapshot.HasData && m.snapshot.LastError != nil:
		content = m.placeholder("Unable to fetch products. Press r to retry.", inner, bgColor)
	case !m.snapshot.HasData:
		content = m.placeholder(m.spinner.View()+" Loading products...", inner, bgColor)
	default:
		content = m.placeholder("No products yet. Press n to add one.", inner, bgColor)
	}
	return m.renderTitledBox(title, content, width, height, focused)
}

func (m Model) placeholder(text string, width int, bgColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Background(lipgloss.Color(bgColor)).
		Width(width).
		Render(" " + text)
}

// renderRows renders the header row and as many product rows as fit,
// scrolled so the selection stays visible.
func (m Model) renderRows(width, height int, bgColor string) string {
	cols := columns(width)
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	flex := max(width-fixed-1, 8)

	cells := func(p *catalog.Product) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			w := c.width
			if w == 0 {
				w = flex
			}
			text := c.title
			if p != nil {
				text = c.value(*p)
			}
			out[i] = pad(truncate(oneLine(text), w), w)
		}
		return out
	}

	lines := []string{bg.FillLine(bg.Space()+bg.Render(strings.Join(cells(nil), " "), styles.MutedText.Bold(true)), width)}

	visible := max(height-1, 1)
	products := m.snapshot.Products
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(start+visible, len(products))

	for i := start; i < end; i++ {
		p := products[i]
		row := " " + strings.Join(cells(&p), " ")
		if i == m.selectedRow {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Width(width).
				Render(row))
			continue
		}
		lines = append(lines, bg.FillLine(bg.Render(row, styles.Text), width))
	}
	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := runewidth.StringWidth(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	padded := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		padded = append(padded,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(padded, "\n") + "\n" + bottomBorder
}

// truncate shortens s to at most max display cells, ending in "...".
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

// pad right-fills s with spaces to width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// oneLine collapses line breaks so a cell never spans rows.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
