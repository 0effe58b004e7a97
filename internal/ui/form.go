package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/admin"
)

var fieldLabels = map[admin.Field]string{
	admin.FieldName:        "Name",
	admin.FieldPrice:       "Price",
	admin.FieldDescription: "Description",
	admin.FieldImage:       "Image",
}

// formFieldCount matches len(admin.Fields()).
const formFieldCount = 4

func newFormInputs() [formFieldCount]textinput.Model {
	var inputs [formFieldCount]textinput.Model
	for i, f := range admin.Fields() {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = strings.ToLower(fieldLabels[f])
		in.CharLimit = 512
		if f == admin.FieldPrice {
			in.CharLimit = 18
		}
		inputs[i] = in
	}
	return inputs
}

func fieldIndex(f admin.Field) int {
	for i, candidate := range admin.Fields() {
		if candidate == f {
			return i
		}
	}
	return 0
}

// syncInputs copies the form state into the text inputs. The form is the
// source of truth; inputs only mirror it.
func (m *Model) syncInputs() {
	if m.ctrl == nil {
		return
	}
	values := m.ctrl.Form().Values()
	for i, f := range admin.Fields() {
		if m.inputs[i].Value() != values.Get(f) {
			m.inputs[i].SetValue(values.Get(f))
		}
	}
}

func (m *Model) applyInputTheme() {
	styles := m.theme.Styles()
	for i := range m.inputs {
		m.inputs[i].TextStyle = styles.Text
		m.inputs[i].PlaceholderStyle = styles.FaintText
		m.inputs[i].Cursor.Style = styles.AccentText
	}
}

func (m *Model) resizeInputs() {
	width := m.width*40/100 - 6
	if m.width < LayoutCompactWidth {
		width = m.width - 6
	}
	for i := range m.inputs {
		m.inputs[i].Width = max(width, 10)
	}
}

// focusForm moves keyboard focus to the form, on field idx.
func (m *Model) focusForm(idx int) tea.Cmd {
	m.focus = paneForm
	return m.focusField(idx)
}

func (m *Model) focusField(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.inputs) {
		idx = 0
	}
	m.fieldIdx = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == idx && m.focus == paneForm {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) blurForm() {
	m.focus = paneTable
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// handleFormKey processes keyboard input while the form has focus. Keys not
// bound to form navigation are typed into the focused field.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.inputs) - 1

	switch {
	case key.Matches(msg, m.keys.Leave):
		m.blurForm()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case msg.Type == tea.KeyEnter:
		if m.fieldIdx == last {
			return m.submit()
		}
		return m, m.focusField(m.fieldIdx + 1)

	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.fieldIdx + 1) % len(m.inputs))

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField((m.fieldIdx + last) % len(m.inputs))
	}

	idx := m.fieldIdx
	before := m.inputs[idx].Value()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	if after := m.inputs[idx].Value(); after != before {
		if err := m.ctrl.SetField(admin.Fields()[idx], after); err != nil {
			m.log.WithError(err).Warn("set form field")
		}
	}
	return m, cmd
}

// submit dispatches the form unless a create or update is already in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.ctrl.Submitting() {
		return m, nil
	}
	return m, submitCmd(m.ctx, m.ctrl)
}

// renderForm renders the create/edit pane.
func (m Model) renderForm(width, height int) string {
	focused := m.focus == paneForm
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := width - 4

	title := "New product"
	if id := m.ctrl.Form().ID(); !id.IsZero() {
		title = fmt.Sprintf("Edit product #%s", id)
	}

	var lines []string
	for i, f := range admin.Fields() {
		label := fieldLabels[f]
		labelStyle := styles.MutedText
		if focused && i == m.fieldIdx {
			labelStyle = styles.AccentText.Bold(true)
		}
		lines = append(lines, bg.FillLine(bg.Render(label, labelStyle), inner))
		lines = append(lines, bg.FillLine(m.inputs[i].View(), inner))
		lines = append(lines, "")
	}

	switch {
	case m.ctrl.Submitting():
		lines = append(lines, bg.Render(m.spinner.View()+" Saving...", styles.WarningText))
	case focused:
		lines = append(lines, bg.Render("ctrl+s", styles.AccentText)+bg.Render(" save  ", styles.MutedText)+
			bg.Render("esc", styles.AccentText)+bg.Render(" back", styles.MutedText))
	default:
		lines = append(lines, bg.Render("tab to edit", styles.FaintText))
	}

	content := lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color(bgColor)).
		Render(strings.Join(lines, "\n"))
	return m.renderTitledBox(title, content, width, height, focused)
}
