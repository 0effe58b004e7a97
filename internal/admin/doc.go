// Package admin holds the headless logic of the products admin view.
//
// FormState is the single create/edit form; an empty id means create mode.
// Mutation runs one kind of write request and reports when it settles.
// Controller ties them to a catalog.Service and a state.Store: it routes
// submission to create or update, gates deletes behind a Confirmer, and
// re-fetches the list after every settled write rather than patching it.
//
// Nothing here renders. The ui package drives a Controller from Bubble Tea
// commands, and supplies the Notifier and Confirmer implementations.
package admin
