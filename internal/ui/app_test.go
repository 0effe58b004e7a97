package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockroom/internal/admin"
	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/mockapi"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/state"
)

type fixture struct {
	api     *mockapi.Server
	ctrl    *admin.Controller
	toaster *Toaster
	model   Model
}

func newFixture(t *testing.T, seed ...catalog.ProductInput) *fixture {
	t.Helper()

	api := mockapi.New(mockapi.Options{})
	api.Seed(seed...)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := catalog.NewClient(srv.URL, catalog.Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	toaster := NewToaster(ToastBuffer)
	confirmer := NewModalConfirmer()
	store := state.New(client, state.WithErrorNotifier(admin.RefreshFailed(toaster, 0)))
	ctrl, err := admin.NewController(admin.Options{
		Client:    client,
		Store:     store,
		Notifier:  toaster,
		Confirmer: confirmer,
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	m := New(Options{
		Context:    context.Background(),
		Controller: ctrl,
		Toaster:    toaster,
		Confirmer:  confirmer,
		APIBase:    srv.URL,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})

	f := &fixture{api: api, ctrl: ctrl, toaster: toaster, model: m}
	f.run(mountCmd(m.ctx, ctrl))
	return f
}

// run executes cmd and feeds its message, and any snapshot it leads to,
// back into the model.
func (f *fixture) run(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		var next tea.Model
		next, cmd = f.model.Update(msg)
		f.model = next.(Model)
	}
}

// deliver runs cmd once and applies its message, dropping any follow-up
// command. Used for commands that re-arm a blocking wait.
func (f *fixture) deliver(cmd tea.Cmd) {
	next, _ := f.model.Update(cmd())
	f.model = next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key and returns the command it produced.
func (f *fixture) press(k string) tea.Cmd {
	next, cmd := f.model.Update(keyMsg(k))
	f.model = next.(Model)
	return cmd
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.press(string(r))
	}
}

func seedProducts() []catalog.ProductInput {
	return []catalog.ProductInput{
		{Name: "Pen", Price: 10, Description: "blue ink", Image: "pen.png"},
		{Name: "Mug", Price: 7, Description: "tall", Image: "mug.png"},
	}
}

func TestModel_MountShowsProducts(t *testing.T) {
	f := newFixture(t, seedProducts()...)

	if got := len(f.model.snapshot.Products); got != 2 {
		t.Fatalf("products = %d, want 2", got)
	}
	view := f.model.View()
	for _, want := range []string{"stockroom", "Products (2)", "Pen", "Mug", "pen.png", "New product"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestModel_EmptyListShowsHint(t *testing.T) {
	f := newFixture(t)

	if view := f.model.View(); !strings.Contains(view, "No products yet") {
		t.Fatalf("view missing empty-state hint")
	}
}

func TestModel_CreateFromForm(t *testing.T) {
	f := newFixture(t)

	f.press("n")
	if f.model.focus != paneForm {
		t.Fatalf("focus = %v, want form", f.model.focus)
	}
	f.typeText("Cup")
	f.press("tab")
	f.press("backspace") // drop the default "0"
	f.typeText("5")

	if got := f.ctrl.Form().Values(); got.Name != "Cup" || got.Price != "5" {
		t.Fatalf("form = %+v, want name Cup price 5", got)
	}

	f.run(f.press("ctrl+s"))

	products := f.api.Products()
	if len(products) != 1 || products[0].Name != "Cup" || products[0].Price != 5 {
		t.Fatalf("server products = %+v", products)
	}
	if got := len(f.model.snapshot.Products); got != 1 {
		t.Fatalf("snapshot products = %d, want 1", got)
	}
	if got := f.model.inputs[0].Value(); got != "" {
		t.Fatalf("name input = %q, want cleared", got)
	}
	if got := f.model.inputs[1].Value(); got != "0" {
		t.Fatalf("price input = %q, want 0", got)
	}
}

func TestModel_EditSelectedRow(t *testing.T) {
	f := newFixture(t, seedProducts()...)

	f.press("j")
	f.press("e")
	if got := f.ctrl.Form().ID(); got != "2" {
		t.Fatalf("form id = %q, want 2", got)
	}
	if got := f.model.inputs[0].Value(); got != "Mug" {
		t.Fatalf("name input = %q, want Mug", got)
	}
	if view := f.model.View(); !strings.Contains(view, "Edit product #2") {
		t.Fatalf("view missing edit title")
	}

	f.press("tab")
	f.press("backspace")
	f.typeText("9")
	// enter walks the remaining fields and submits on the last one
	f.press("enter")
	f.press("enter")
	f.run(f.press("enter"))

	var mug catalog.Product
	for _, p := range f.api.Products() {
		if p.ID == "2" {
			mug = p
		}
	}
	if mug.Price != 9 || mug.Name != "Mug" {
		t.Fatalf("mug = %+v, want price 9", mug)
	}
	if !f.ctrl.Form().ID().IsZero() {
		t.Fatalf("form still in edit mode after save")
	}

	var sawPatch bool
	for _, r := range f.api.Requests() {
		if r.Method == http.MethodPatch && r.Path == "/products/2" {
			sawPatch = true
		}
		if r.Method == http.MethodPost {
			t.Fatalf("unexpected create request")
		}
	}
	if !sawPatch {
		t.Fatalf("no PATCH /products/2 recorded")
	}
}

func TestModel_InvalidPriceFocusesPrice(t *testing.T) {
	f := newFixture(t)

	f.press("n")
	f.typeText("Cup")
	f.press("tab")
	f.typeText("x")
	f.press("tab")
	f.run(f.press("ctrl+s"))

	if got := len(f.api.Products()); got != 0 {
		t.Fatalf("server products = %d, want 0", got)
	}
	if f.model.fieldIdx != fieldIndex(admin.FieldPrice) {
		t.Fatalf("fieldIdx = %d, want price", f.model.fieldIdx)
	}
	if got := f.model.inputs[1].Value(); got != "0x" {
		t.Fatalf("price input = %q, want kept", got)
	}
}

func TestModel_DeleteConfirmed(t *testing.T) {
	f := newFixture(t, seedProducts()...)

	done := make(chan tea.Msg, 1)
	cmd := f.press("d")
	if cmd == nil {
		t.Fatalf("delete produced no command")
	}
	go func() { done <- cmd() }()

	f.deliver(f.model.confirmer.wait())
	if f.model.modal == nil {
		t.Fatalf("confirmation modal not shown")
	}
	if view := f.model.View(); !strings.Contains(view, "Pen") {
		t.Fatalf("modal does not name the product")
	}

	f.press("y")
	if f.model.modal != nil {
		t.Fatalf("modal still open after answer")
	}

	select {
	case msg := <-done:
		f.run(func() tea.Msg { return msg })
	case <-time.After(2 * time.Second):
		t.Fatalf("delete did not settle")
	}

	if got := len(f.api.Products()); got != 1 {
		t.Fatalf("server products = %d, want 1", got)
	}
	if got := f.model.snapshot.Products[0].Name; got != "Mug" {
		t.Fatalf("remaining product = %q, want Mug", got)
	}
}

func TestModel_DeleteDeclined(t *testing.T) {
	f := newFixture(t, seedProducts()...)

	done := make(chan tea.Msg, 1)
	cmd := f.press("d")
	go func() { done <- cmd() }()

	f.deliver(f.model.confirmer.wait())
	f.press("esc")

	msg := <-done
	dm, ok := msg.(deletedMsg)
	if !ok || !errors.Is(dm.err, admin.ErrDeclined) {
		t.Fatalf("msg = %#v, want declined delete", msg)
	}
	for _, r := range f.api.Requests() {
		if r.Method == http.MethodDelete {
			t.Fatalf("DELETE sent after decline")
		}
	}
	if got := len(f.api.Products()); got != 2 {
		t.Fatalf("server products = %d, want 2", got)
	}
}

func TestModel_RefreshFailureKeepsRowsAndMarksHeader(t *testing.T) {
	f := newFixture(t, seedProducts()...)

	f.api.FailNext(http.MethodGet, http.StatusServiceUnavailable)
	f.run(f.press("r"))

	if got := len(f.model.snapshot.Products); got != 2 {
		t.Fatalf("products = %d, want stale 2", got)
	}
	if view := f.model.View(); !strings.Contains(view, "HTTP 503") {
		t.Fatalf("header missing error marker")
	}

	f.deliver(f.toaster.wait())
	if len(f.model.toasts) != 1 || f.model.toasts[0].Description != "Unable to fetch products" {
		t.Fatalf("toasts = %+v", f.model.toasts)
	}
}

func TestModel_SelectionFollowsProductID(t *testing.T) {
	m := New(Options{})
	m.applySnapshot(state.Snapshot{Products: []catalog.Product{{ID: "1"}, {ID: "2"}, {ID: "3"}}})
	m.selectedRow = 2

	m.applySnapshot(state.Snapshot{Products: []catalog.Product{{ID: "3"}, {ID: "4"}}})
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}

	m.selectedRow = 1
	m.applySnapshot(state.Snapshot{Products: []catalog.Product{{ID: "3"}}})
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want clamped 0", m.selectedRow)
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	f := newFixture(t)
	path := f.model.prefsPath

	f.press("T")
	if f.model.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", f.model.theme.Name)
	}
	if got := prefs.Load(path).Theme; got != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", got)
	}
}

func TestModel_QuitUnmounts(t *testing.T) {
	f := newFixture(t)

	cmd := f.press("q")
	if cmd == nil {
		t.Fatalf("quit produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not quit")
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	f := newFixture(t)

	f.press("?")
	if !f.model.showHelp {
		t.Fatalf("help not shown")
	}
	if view := f.model.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	f.press("j")
	if f.model.showHelp {
		t.Fatalf("help still shown")
	}
}
