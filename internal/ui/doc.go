// Package ui is the Bubble Tea front end of stockroom.
//
// Model renders a products table beside a create/edit form, with a status
// header, a key hint bar and a stack of toasts. It drives an
// admin.Controller: every blocking call (mount, refresh, submit, delete)
// runs inside a tea.Cmd and reports back as a message, so the Update loop
// never waits on the network.
//
// Two adapters let the controller reach the screen from those goroutines:
//
//   - Toaster implements admin.Notifier and queues notifications for the
//     model to show.
//   - ModalConfirmer implements admin.Confirmer. Confirm blocks its caller
//     until the operator answers the modal or the context ends.
//
// The model re-reads the store snapshot on a fixed tick and after every
// settled command, keeping the selection on the same product id.
package ui
