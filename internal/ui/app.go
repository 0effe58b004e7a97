package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/admin"
	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/state"
)

// pane identifies which half of the screen has keyboard focus.
type pane int

const (
	paneTable pane = iota
	paneForm
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *admin.Controller
	Toaster    *Toaster
	Confirmer  *ModalConfirmer
	APIBase    string
	UITick     time.Duration
	ThemeName  string
	PrefsPath  string
	Logger     logrus.FieldLogger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *admin.Controller
	toaster   *Toaster
	confirmer *ModalConfirmer
	apiBase   string
	prefsPath string
	uiTick    time.Duration
	log       logrus.FieldLogger
	keys      keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	focus  pane

	// Data state
	snapshot    state.Snapshot
	selectedRow int

	// Form state
	inputs   [formFieldCount]textinput.Model
	fieldIdx int

	spinner     spinner.Model
	toasts      []toast
	nextToastID int
	modal       Modal
	showHelp    bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	toaster := opts.Toaster
	if toaster == nil {
		toaster = NewToaster(ToastBuffer)
	}
	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = NewModalConfirmer()
	}

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		toaster:   toaster,
		confirmer: confirmer,
		apiBase:   opts.APIBase,
		prefsPath: prefsPath,
		uiTick:    uiTick,
		log:       log,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		inputs:    newFormInputs(),
	}
	m.applyInputTheme()
	m.syncInputs()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		mountCmd(m.ctx, m.ctrl),
		tickCmd(m.uiTick),
		m.spinner.Tick,
		m.toaster.wait(),
		m.confirmer.wait(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeInputs()
		return m, nil

	case tickMsg:
		return m, tea.Batch(snapshotCmd(m.ctrl), tickCmd(m.uiTick))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshedMsg:
		return m, snapshotCmd(m.ctrl)

	case submittedMsg:
		m.syncInputs()
		var ve *admin.ValidationError
		if errors.As(msg.err, &ve) {
			m.focusField(fieldIndex(ve.Field))
		}
		return m, snapshotCmd(m.ctrl)

	case deletedMsg:
		if errors.Is(msg.err, admin.ErrDeclined) {
			return m, nil
		}
		m.syncInputs()
		return m, snapshotCmd(m.ctrl)

	case toastMsg:
		cmd := m.addToast(admin.Notification(msg))
		return m, tea.Batch(cmd, m.toaster.wait())

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case confirmRequestMsg:
		if m.modal != nil {
			// One question at a time; a second request is declined.
			msg.reply <- false
			return m, m.confirmer.wait()
		}
		m.modal = newConfirmModal(confirmRequest(msg))
		return m, m.confirmer.wait()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.focus == paneForm {
		return m.handleFormKey(msg)
	}
	return m.handleTableKey(msg)
}

// handleTableKey processes keyboard input while the table has focus.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.snapshot.Products

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyInputTheme()
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				m.log.WithError(err).Warn("save preferences")
			}
		}

	case key.Matches(msg, m.keys.Focus):
		return m, m.focusForm(m.fieldIdx)

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(products)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(products)-1, 0)

	case key.Matches(msg, m.keys.Edit):
		p, ok := m.selectedProduct()
		if !ok {
			return m, nil
		}
		m.ctrl.Edit(p)
		m.syncInputs()
		return m, m.focusForm(0)

	case key.Matches(msg, m.keys.New):
		m.ctrl.Cancel()
		m.syncInputs()
		return m, m.focusForm(0)

	case key.Matches(msg, m.keys.Delete):
		p, ok := m.selectedProduct()
		if !ok || m.ctrl.Busy() {
			return m, nil
		}
		return m, deleteCmd(m.ctx, m.ctrl, p.ID)

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.ctx, m.ctrl)
	}

	return m, nil
}

// quit abandons in-flight work and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if c, ok := m.modal.(*confirmModal); ok {
		c.dismiss()
	}
	m.modal = nil
	m.ctrl.Unmount()
	return m, tea.Quit
}

// applySnapshot swaps in a new snapshot, keeping the selection on the same
// product when it still exists.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID catalog.ID
	if p, ok := m.selectedProduct(); ok {
		selectedID = p.ID
	}

	m.snapshot = snap

	if !selectedID.IsZero() {
		for i, p := range snap.Products {
			if p.ID == selectedID {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= len(snap.Products) {
		m.selectedRow = max(len(snap.Products)-1, 0)
	}
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Products) {
		return catalog.Product{}, false
	}
	return m.snapshot.Products[m.selectedRow], true
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	toasts := m.renderToasts()
	contentHeight := m.height - 2
	if toasts != "" {
		contentHeight -= lipgloss.Height(toasts)
	}

	b.WriteString(m.renderContent(max(contentHeight, 3)))
	if toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}
	return b.String()
}

// renderContent lays out the table and form side by side, or just the
// focused pane on narrow terminals.
func (m Model) renderContent(height int) string {
	if m.width < LayoutCompactWidth {
		if m.focus == paneForm {
			return m.renderForm(m.width, height)
		}
		return m.renderTable(m.width, height)
	}

	tableWidth := m.width * 60 / 100
	formWidth := m.width - tableWidth
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTable(tableWidth, height),
		m.renderForm(formWidth, height),
	)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
