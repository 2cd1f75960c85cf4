package catalog

import (
	"context"
	"sync"

	"github.com/exactmatch/storefront/pkg/logger"
)

// State is the observable fetch lifecycle: the last good data, whether a
// request is in flight, and the last failure. Data survives both reloads and
// errors (stale-while-error) so a view never blanks out.
type State[T any] struct {
	Data    T      `json:"data"`
	HasData bool   `json:"has_data"`
	Loading bool   `json:"loading"`
	Err     string `json:"error,omitempty"`
}

// Resource wraps one logical catalog query in that lifecycle. SetQuery with
// an unchanged key is a no-op; a changed key issues exactly one fetch, and
// when fetches overlap the last-issued one wins regardless of completion
// order.
type Resource[T any] struct {
	name string
	logg *logger.Logger

	mu      sync.Mutex
	state   State[T]
	key     string
	hasKey  bool
	seq     uint64
	settled chan struct{}
}

// NewResource names the resource for log lines.
func NewResource[T any](name string, logg *logger.Logger) *Resource[T] {
	return &Resource[T]{name: name, logg: logg}
}

// SetQuery registers the current query by content key and triggers a fetch
// when the key differs from the last one seen. The fetch runs on its own
// goroutine and outlives ctx's cancellation, so one caller giving up cannot
// settle the shared state with its own context error; results from superseded
// fetches are discarded.
func (r *Resource[T]) SetQuery(ctx context.Context, key string, fetch func(context.Context) (T, error)) {
	r.mu.Lock()
	if r.hasKey && r.key == key {
		r.mu.Unlock()
		return
	}
	r.issue(ctx, key, fetch)
}

// Refetch re-issues the current query even though its key is unchanged. This
// is the explicit re-trigger path: a failed fetch is never retried on its
// own, the caller asks again.
func (r *Resource[T]) Refetch(ctx context.Context, fetch func(context.Context) (T, error)) {
	r.mu.Lock()
	r.issue(ctx, r.key, fetch)
}

// issue starts the fetch goroutine. The caller must hold r.mu; issue releases it.
func (r *Resource[T]) issue(ctx context.Context, key string, fetch func(context.Context) (T, error)) {
	r.key = key
	r.hasKey = true
	r.seq++
	token := r.seq
	r.state.Loading = true

	ch := make(chan struct{})
	r.settled = ch
	r.mu.Unlock()

	// Keep the issuing caller's values (request id for logs) but not its
	// cancellation; the fetch itself is bounded by the client's own timeout.
	fetchCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(ch)

		data, err := fetch(fetchCtx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if token != r.seq {
			// A newer query was issued while this one was in flight.
			return
		}

		r.state.Loading = false
		if err != nil {
			r.state.Err = err.Error()
			if r.logg != nil {
				r.logg.Error(fetchCtx, "catalog fetch failed: "+r.name, err)
			}
			return
		}
		r.state.Data = data
		r.state.HasData = true
		r.state.Err = ""
	}()
}

// Snapshot returns the current lifecycle state.
func (r *Resource[T]) Snapshot() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Await blocks until the latest issued fetch settles, then returns the state.
// It returns early with the context error if ctx expires first.
func (r *Resource[T]) Await(ctx context.Context) (State[T], error) {
	for {
		r.mu.Lock()
		if !r.state.Loading {
			state := r.state
			r.mu.Unlock()
			return state, nil
		}
		ch := r.settled
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return State[T]{}, ctx.Err()
		case <-ch:
		}
	}
}
