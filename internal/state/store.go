package state

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/catalog"
)

// Lister fetches the product collection. *catalog.Client satisfies it.
type Lister interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

// Snapshot is the latest product list available to the UI.
type Snapshot struct {
	Products            []catalog.Product
	HasData             bool // at least one refresh succeeded
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has failed several refreshes in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Option configures a Store.
type Option func(*Store)

// WithErrorNotifier registers fn to be called once per failed refresh.
func WithErrorNotifier(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithLogger sets the logger used for refresh outcomes.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// Store owns the product snapshot. Refreshes replace it wholesale; it is
// never patched.
type Store struct {
	lister  Lister
	onError func(error)
	log     logrus.FieldLogger

	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64 // ticket handed to the most recent Refresh
	applied  uint64 // ticket of the most recent result written to snapshot
	inflight int

	muted atomic.Bool
}

// New returns a Store that refreshes from lister.
func New(lister Lister, opts ...Option) *Store {
	s := &Store{lister: lister}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		s.log = discard
	}
	return s
}

// Refresh fetches the list and swaps it into the snapshot. On failure the
// previous products stay visible, the error is recorded and the error
// notifier runs. A response that resolves after a newer refresh has already
// been applied is dropped. The fetch error, if any, is returned.
func (s *Store) Refresh(ctx context.Context) error {
	if s.lister == nil {
		return fmt.Errorf("store has no lister")
	}

	s.mu.Lock()
	s.issued++
	ticket := s.issued
	s.inflight++
	s.snapshot.Loading = true
	s.mu.Unlock()

	items, err := s.lister.List(ctx)

	applied := s.finish(ticket, items, err)
	entry := s.log.WithField("ticket", ticket)
	switch {
	case !applied:
		entry.Debug("discarding stale refresh result")
	case err != nil:
		entry.WithError(err).Warn("product refresh failed")
		if s.onError != nil && !s.muted.Load() {
			s.onError(err)
		}
	default:
		entry.WithField("count", len(items)).Debug("product list refreshed")
	}
	return err
}

func (s *Store) finish(ticket uint64, items []catalog.Product, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	s.snapshot.Loading = s.inflight > 0
	if ticket <= s.applied {
		return false
	}
	s.applied = ticket

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}
	s.snapshot.Products = cloneProducts(items)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Mute stops or resumes the error notifier. Failures are still recorded in
// the snapshot and returned while muted.
func (s *Store) Mute(muted bool) {
	s.muted.Store(muted)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = cloneProducts(s.snapshot.Products)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}
