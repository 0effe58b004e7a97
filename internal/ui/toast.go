package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockroom/internal/admin"
)

// Toaster implements admin.Notifier by queueing notifications for the
// model. Notify never blocks; when the queue is full the notification is
// dropped.
type Toaster struct {
	ch chan admin.Notification
}

var _ admin.Notifier = (*Toaster)(nil)

// NewToaster returns a Toaster with room for buffer queued notifications.
func NewToaster(buffer int) *Toaster {
	if buffer <= 0 {
		buffer = ToastBuffer
	}
	return &Toaster{ch: make(chan admin.Notification, buffer)}
}

// Notify queues n for display.
func (t *Toaster) Notify(n admin.Notification) {
	select {
	case t.ch <- n:
	default:
	}
}

// wait delivers the next notification to the model.
func (t *Toaster) wait() tea.Cmd {
	return func() tea.Msg {
		return toastMsg(<-t.ch)
	}
}

type toastMsg admin.Notification

type toastExpiredMsg struct{ id int }

type toast struct {
	id int
	admin.Notification
}

// addToast appends n and returns the command that expires it.
func (m *Model) addToast(n admin.Notification) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{id: id, Notification: n})
	if len(m.toasts) > MaxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-MaxVisibleToasts:]
	}
	d := n.Duration
	if d <= 0 {
		d = admin.DefaultToastDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// renderToasts renders one line per visible toast, newest last.
func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		line := styles.Badge(t.Severity).Render(t.Title)
		if t.Description != "" {
			line += bg.Space() + bg.Render(truncate(t.Description, max(m.width-len(t.Title)-6, 10)), styles.Text)
		}
		lines = append(lines, bg.FillLine(line, m.width))
	}
	return strings.Join(lines, "\n")
}
