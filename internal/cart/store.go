package cart

import (
	"context"
	"sync"

	"github.com/luxe-commerce/storefront/internal/catalog"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/logger"
	"github.com/luxe-commerce/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

const storeName = "cart"

// StoreParams groups dependencies for the cart store.
type StoreParams struct {
	KV      localstore.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store is the cart state container. Mutations apply a pure transition under
// the lock, persist the new state, and notify subscribers. Persistence
// failures are swallowed: in-memory state keeps serving reads.
type Store struct {
	mu          sync.Mutex
	state       State
	kv          localstore.KV
	logg        *logger.Logger
	metrics     *metrics.StoreMetrics
	subscribers []func(State)
}

// NewStore builds the cart store and rehydrates it from the cart bucket.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv is required")
	}
	s := &Store{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
	if _, err := localstore.LoadJSON(ctx, s.kv, localstore.KeyCart, &s.state); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStore(ctx, storeName), "cart bucket unreadable, starting empty")
		}
		s.state = State{}
	}
	return s, nil
}

// Subscribe registers fn to run after every committed mutation.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// AddItem merges the product into an existing line by product id or appends
// a new line. Quantities below one count as one.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int, size, color string) {
	s.apply(ctx, "add_item", func(state State) State {
		return addItem(state, product, quantity, size, color)
	})
}

// RemoveItem deletes every line matching the product id, variants included.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.apply(ctx, "remove_item", func(state State) State {
		return removeItem(state, productID)
	})
}

// UpdateQuantity sets the line quantity; a target below one removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.apply(ctx, "update_quantity", func(state State) State {
		return updateQuantity(state, productID, quantity)
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.apply(ctx, "clear", clearItems)
}

// Open shows the cart sidebar.
func (s *Store) Open(ctx context.Context) {
	s.apply(ctx, "open", func(state State) State {
		state.IsOpen = true
		return state
	})
}

// Close hides the cart sidebar.
func (s *Store) Close(ctx context.Context) {
	s.apply(ctx, "close", func(state State) State {
		state.IsOpen = false
		return state
	})
}

// Toggle flips the cart sidebar.
func (s *Store) Toggle(ctx context.Context) {
	s.apply(ctx, "toggle", func(state State) State {
		state.IsOpen = !state.IsOpen
		return state
	})
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.state.Items)
}

// IsOpen reports the sidebar flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsOpen
}

// TotalPrice sums price times quantity over all lines. Derived on demand.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.state)
}

// TotalItems sums quantities, feeding the cart-icon badge.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.state)
}

func (s *Store) apply(ctx context.Context, op string, transition func(State) State) {
	s.mu.Lock()
	s.state = transition(s.state)
	snapshot := s.state
	snapshot.Items = cloneItems(s.state.Items)
	subscribers := s.subscribers
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, op)
	s.persist(ctx, snapshot)
	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (s *Store) persist(ctx context.Context, state State) {
	if err := localstore.SaveJSON(ctx, s.kv, localstore.KeyCart, state); err != nil {
		s.metrics.IncPersistFailure(storeName)
		if s.logg != nil {
			s.logg.Error(s.logg.WithStore(ctx, storeName), "cart persist failed", err)
		}
	}
}
