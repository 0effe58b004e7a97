package admin

import (
	"context"
	"sync"

	"github.com/five82/stockroom/internal/catalog"
)

// Kind names a mutation.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "create"
	}
}

// Outcome describes a settled mutation.
type Outcome struct {
	Kind    Kind
	Product catalog.Product // server representation; zero for delete
	Err     error
}

// UpdateRequest is the payload of an update mutation.
type UpdateRequest struct {
	ID    catalog.ID
	Input catalog.ProductInput
}

// Mutation runs one kind of request and tracks whether one is in flight. It
// does not refuse overlapping calls; the view disables the control instead.
type Mutation[P any] struct {
	kind Kind
	run  func(ctx context.Context, payload P) (catalog.Product, error)

	mu      sync.Mutex
	pending int
}

// NewMutation returns a Mutation that performs run.
func NewMutation[P any](kind Kind, run func(ctx context.Context, payload P) (catalog.Product, error)) *Mutation[P] {
	return &Mutation[P]{kind: kind, run: run}
}

// Kind returns the mutation kind.
func (m *Mutation[P]) Kind() Kind {
	return m.kind
}

// Pending reports whether a request is in flight.
func (m *Mutation[P]) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Execute performs the request. Pending is true for its duration; once the
// request settles, pending drops and onSettled (if non-nil) runs exactly
// once with the outcome. The request error is also returned.
func (m *Mutation[P]) Execute(ctx context.Context, payload P, onSettled func(Outcome)) error {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()

	product, err := m.run(ctx, payload)

	m.mu.Lock()
	m.pending--
	m.mu.Unlock()

	if onSettled != nil {
		onSettled(Outcome{Kind: m.kind, Product: product, Err: err})
	}
	return err
}
