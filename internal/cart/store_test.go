package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type stubSnapshots struct {
	mu      sync.Mutex
	stored  *State
	loadErr error
	saveErr error
	saves   int
}

func (s *stubSnapshots) Load(context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return State{}, s.loadErr
	}
	if s.stored == nil {
		return State{}, ErrNoSnapshot
	}
	return *s.stored, nil
}

func (s *stubSnapshots) Save(_ context.Context, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := State{Items: cloneItems(state.Items)}
	s.stored = &copied
	return nil
}

func TestNewStoreRequiresSnapshots(t *testing.T) {
	if _, err := NewStore(nil, nil, nil); err == nil {
		t.Fatal("expected error creating store without snapshots")
	}
}

func TestStoreStartsEmptyWhenSlotNeverWritten(t *testing.T) {
	store, err := NewStore(&stubSnapshots{}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Load(context.Background())

	if store.Count() != 0 || len(store.Items()) != 0 {
		t.Fatalf("expected empty cart, got count=%d", store.Count())
	}
}

func TestStoreLoadFailureFallsBackToEmpty(t *testing.T) {
	snapshots := &stubSnapshots{loadErr: errors.New("corrupt payload")}
	store, err := NewStore(snapshots, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	store.Load(context.Background())

	if store.Count() != 0 {
		t.Fatalf("expected empty cart after load failure, got %d", store.Count())
	}

	// The store keeps working after the swallowed failure.
	store.Add(context.Background(), testBattery(1, "N70", "Amaron", "100"), 1)
	if store.Count() != 1 {
		t.Fatalf("expected mutation to succeed, got count %d", store.Count())
	}
}

func TestStoreHydratesFromSnapshot(t *testing.T) {
	seed := State{Items: []Item{
		{ID: 1, Name: "N70", Brand: "Amaron", UnitPrice: decimal.NewFromInt(100), Quantity: 2, Specs: "12V • 70Ah • 650A CCA"},
		{ID: 2, Name: "MF31", Brand: "Exide", UnitPrice: decimal.NewFromInt(210), Quantity: 1},
	}}
	store, err := NewStore(&stubSnapshots{stored: &seed}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Load(context.Background())

	items := store.Items()
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("expected hydrated items in order, got %+v", items)
	}
	if store.Count() != 3 {
		t.Fatalf("expected count 3, got %d", store.Count())
	}
}

func TestStorePersistsEveryMutation(t *testing.T) {
	snapshots := &stubSnapshots{}
	store, err := NewStore(snapshots, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Load(context.Background())
	ctx := context.Background()

	store.Add(ctx, testBattery(1, "N70", "Amaron", "100"), 2)
	store.SetQuantity(ctx, 1, 4)
	store.Remove(ctx, 1)
	store.Clear(ctx)

	if snapshots.saves != 4 {
		t.Fatalf("expected 4 snapshot writes, got %d", snapshots.saves)
	}
	if len(snapshots.stored.Items) != 0 {
		t.Fatalf("expected final snapshot empty, got %+v", snapshots.stored.Items)
	}
}

func TestStoreSkipsStaleSnapshotWrites(t *testing.T) {
	snapshots := &stubSnapshots{}
	store, err := NewStore(snapshots, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	newer := State{Items: []Item{{ID: 1, Name: "N70", Quantity: 3}}}
	store.persist(ctx, newer, 2)
	store.persist(ctx, State{Items: []Item{}}, 1)

	if snapshots.saves != 1 {
		t.Fatalf("expected the stale write to be skipped, got %d saves", snapshots.saves)
	}
	if len(snapshots.stored.Items) != 1 || snapshots.stored.Items[0].Quantity != 3 {
		t.Fatalf("expected newer state to remain persisted, got %+v", snapshots.stored)
	}
}

func TestStoreConcurrentMutationsPersistLatestState(t *testing.T) {
	snapshots := &stubSnapshots{}
	store, err := NewStore(snapshots, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			store.Add(ctx, testBattery(id, "N70", "Amaron", "100"), 1)
		}(i)
	}
	wg.Wait()

	snapshots.mu.Lock()
	stored := len(snapshots.stored.Items)
	snapshots.mu.Unlock()
	if stored != store.Count() || stored != 8 {
		t.Fatalf("expected persisted snapshot to match final state, got %d stored vs count %d", stored, store.Count())
	}
}

func TestStoreSurvivesFailingWrites(t *testing.T) {
	snapshots := &stubSnapshots{saveErr: errors.New("quota exceeded")}
	store, err := NewStore(snapshots, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Load(context.Background())
	ctx := context.Background()

	store.Add(ctx, testBattery(1, "N70", "Amaron", "100"), 2)
	store.Add(ctx, testBattery(2, "MF31", "Exide", "210"), 1)
	store.SetQuantity(ctx, 1, 5)

	if store.Count() != 6 {
		t.Fatalf("expected in-memory state authoritative, got count %d", store.Count())
	}
	want := decimal.RequireFromString("710")
	if !store.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, store.Total())
	}
	if !store.IsInCart(2) || store.Quantity(1) != 5 {
		t.Fatalf("unexpected lookups: in=%v qty=%d", store.IsInCart(2), store.Quantity(1))
	}
}

func TestStoreQuantityZeroForAbsentID(t *testing.T) {
	store, err := NewStore(&stubSnapshots{}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Quantity(42) != 0 || store.IsInCart(42) {
		t.Fatal("expected zero quantity and absent lookup for unknown id")
	}
}

func TestStoreAddDefaultsQuantityToOne(t *testing.T) {
	store, err := NewStore(&stubSnapshots{}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Add(context.Background(), testBattery(1, "N70", "Amaron", "100"), 0)

	if store.Quantity(1) != 1 {
		t.Fatalf("expected default quantity 1, got %d", store.Quantity(1))
	}
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	store, err := NewStore(&stubSnapshots{}, nil, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Add(context.Background(), testBattery(1, "N70", "Amaron", "100"), 1)

	items := store.Items()
	items[0].Quantity = 99

	if store.Quantity(1) != 1 {
		t.Fatal("mutating the returned slice must not affect the store")
	}
}
