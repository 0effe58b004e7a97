package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/admin"
)

// Modal is a dialog drawn over the main view. Update reports true once the
// dialog is finished and should be removed.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// ModalConfirmer implements admin.Confirmer by asking the operator through
// a modal. Confirm blocks the calling goroutine, never the Bubble Tea loop,
// until the modal is answered or ctx is done.
type ModalConfirmer struct {
	requests chan confirmRequest
}

var _ admin.Confirmer = (*ModalConfirmer)(nil)

type confirmRequest struct {
	prompt string
	reply  chan bool
}

// NewModalConfirmer returns a confirmer with no pending questions.
func NewModalConfirmer() *ModalConfirmer {
	return &ModalConfirmer{requests: make(chan confirmRequest)}
}

// Confirm shows prompt and waits for yes or no. A done context answers no.
func (c *ModalConfirmer) Confirm(ctx context.Context, prompt string) bool {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-req.reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

// wait delivers the next question to the model.
func (c *ModalConfirmer) wait() tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-c.requests)
	}
}

type confirmRequestMsg confirmRequest

// confirmModal is the yes/no dialog for one confirmRequest.
type confirmModal struct {
	req confirmRequest
}

func newConfirmModal(req confirmRequest) *confirmModal {
	return &confirmModal{req: req}
}

// Update answers the request on y/enter or n/esc and closes.
func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		c.req.reply <- true
		return c, nil, true
	case key.Matches(keyMsg, keys.No):
		c.req.reply <- false
		return c, nil, true
	}
	return c, nil, false
}

// dismiss answers no; used when the view goes away with the modal open.
func (c *confirmModal) dismiss() {
	select {
	case c.req.reply <- false:
	default:
	}
}

// View renders the dialog centered in the window.
func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete product"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.req.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y"))
	b.WriteString(styles.MutedText.Render(" delete   "))
	b.WriteString(styles.AccentText.Render("n/esc"))
	b.WriteString(styles.MutedText.Render(" keep"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(min(60, max(width-4, 20))).
		Render(b.String())

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
