package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/exactmatch/storefront/internal/catalog"
	"github.com/exactmatch/storefront/pkg/logger"
	"github.com/exactmatch/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ErrNoSnapshot reports that the snapshot slot has never been written.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Snapshots persists full cart states to a single named slot.
type Snapshots interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Store is the single source of truth for cart contents. Mutations are
// synchronous, atomic with respect to each other, and each one writes the
// whole state back to the snapshot slot. Storage failures never surface to
// callers: the in-memory state stays authoritative for the session.
type Store struct {
	snapshots Snapshots
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics

	mu      sync.Mutex
	state   State
	version uint64

	saveMu sync.Mutex
	saved  uint64
}

// NewStore builds an empty cart store. Call Load before applying user
// mutations to pick up the persisted snapshot.
func NewStore(snapshots Snapshots, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Store, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("cart snapshots required")
	}
	return &Store{
		snapshots: snapshots,
		logg:      logg,
		metrics:   m,
		state:     State{Items: []Item{}},
	}, nil
}

// Load hydrates the store from the persisted snapshot. A missing or corrupt
// snapshot leaves the cart empty; the failure is logged and swallowed so a
// broken snapshot can never take the storefront down.
func (s *Store) Load(ctx context.Context) {
	loaded, err := s.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) && s.logg != nil {
			s.logg.Error(ctx, "loading cart snapshot failed, starting empty", err)
		}
		return
	}

	s.mu.Lock()
	s.state = apply(s.state, loadState{State: loaded})
	s.mu.Unlock()
}

// Add merges the battery into the cart: existing lines gain quantity, new
// lines snapshot the battery's current fields. Quantities below one are
// treated as one.
func (s *Store) Add(ctx context.Context, battery catalog.Battery, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	s.mutate(ctx, "add", addItem{Battery: battery, Quantity: quantity})
}

// Remove deletes the line with the given id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id int) {
	s.mutate(ctx, "remove", removeItem{ID: id})
}

// SetQuantity sets a line's quantity outright. Zero or negative removes the
// line. Unknown ids are a no-op.
func (s *Store) SetQuantity(ctx context.Context, id, quantity int) {
	s.mutate(ctx, "set_quantity", setQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, "clear", clearCart{})
}

func (s *Store) mutate(ctx context.Context, op string, cmd command) {
	s.mu.Lock()
	s.state = apply(s.state, cmd)
	s.version++
	snapshot := s.state
	version := s.version
	s.mu.Unlock()

	s.metrics.IncCartOp(op)
	s.persist(ctx, snapshot, version)
}

// persist writes the snapshot to the slot. Writes are serialized and tagged
// with the state version they carry: a write that lost the race to a newer
// one is skipped, so the slot never ends on an older state than it last held.
func (s *Store) persist(ctx context.Context, snapshot State, version uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if version <= s.saved {
		return
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "saving cart snapshot failed, continuing in memory", err)
		}
		return
	}
	s.saved = version
}

// Items returns a copy of the current lines in display order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.state.Items)
}

// Count is the sum of all line quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Count()
}

// Total is the sum of unit price times quantity across lines.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total()
}

// IsInCart reports whether a line exists for the id.
func (s *Store) IsInCart(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.find(id)
	return ok
}

// Quantity returns the line quantity for the id, zero when absent.
func (s *Store) Quantity(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.state.find(id); ok {
		return s.state.Items[i].Quantity
	}
	return 0
}

// Close flushes the final state if any mutation's write failed or is still
// unwritten. Failures are swallowed like any other persistence error.
func (s *Store) Close(ctx context.Context) {
	s.mu.Lock()
	snapshot := s.state
	version := s.version
	s.mu.Unlock()

	s.persist(ctx, snapshot, version)
}
