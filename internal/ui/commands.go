package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockroom/internal/admin"
	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshedMsg struct{ err error }

type submittedMsg struct{ err error }

type deletedMsg struct {
	id  catalog.ID
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(ctrl *admin.Controller) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(ctrl.Snapshot())
	}
}

func mountCmd(ctx context.Context, ctrl *admin.Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: ctrl.Mount(ctx)}
	}
}

func refreshCmd(ctx context.Context, ctrl *admin.Controller) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: ctrl.Refresh(ctx)}
	}
}

func submitCmd(ctx context.Context, ctrl *admin.Controller) tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{err: ctrl.Submit(ctx)}
	}
}

// deleteCmd blocks in its own goroutine while the confirmation modal is up.
func deleteCmd(ctx context.Context, ctrl *admin.Controller, id catalog.ID) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: ctrl.Delete(ctx, id)}
	}
}
