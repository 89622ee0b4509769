package wishlist

import (
	"context"
	"sync"

	"github.com/luxe-commerce/storefront/internal/catalog"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/logger"
	"github.com/luxe-commerce/storefront/pkg/metrics"
)

const storeName = "wishlist"

// State is the persisted wishlist bucket. Products are stored by value, so a
// saved entry keeps rendering even if the catalog changes.
type State struct {
	Items []catalog.Product `json:"items"`
}

// StoreParams groups dependencies for the wishlist store.
type StoreParams struct {
	KV      localstore.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store holds the saved-product set. At most one entry per product id.
type Store struct {
	mu          sync.Mutex
	state       State
	kv          localstore.KV
	logg        *logger.Logger
	metrics     *metrics.StoreMetrics
	subscribers []func(State)
}

// NewStore builds the wishlist store and rehydrates it from its bucket.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv is required")
	}
	s := &Store{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
	if _, err := localstore.LoadJSON(ctx, s.kv, localstore.KeyWishlist, &s.state); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStore(ctx, storeName), "wishlist bucket unreadable, starting empty")
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

// AddItem saves the product. Adding an already-saved id is a no-op.
func (s *Store) AddItem(ctx context.Context, product catalog.Product) {
	s.apply(ctx, "add_item", func(state State) State {
		for _, item := range state.Items {
			if item.ID == product.ID {
				return state
			}
		}
		items := cloneProducts(state.Items)
		state.Items = append(items, product)
		return state
	})
}

// RemoveItem drops the entry for the product id if present.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.apply(ctx, "remove_item", func(state State) State {
		items := make([]catalog.Product, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != productID {
				items = append(items, item)
			}
		}
		state.Items = items
		return state
	})
}

// Contains reports wishlist membership for the product id.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.state.Items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

// ToggleItem removes the product when saved, saves it otherwise.
func (s *Store) ToggleItem(ctx context.Context, product catalog.Product) {
	if s.Contains(product.ID) {
		s.RemoveItem(ctx, product.ID)
		return
	}
	s.AddItem(ctx, product)
}

// Items returns a copy of the saved products.
func (s *Store) Items() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.state.Items)
}

func (s *Store) apply(ctx context.Context, op string, transition func(State) State) {
	s.mu.Lock()
	s.state = transition(s.state)
	snapshot := State{Items: cloneProducts(s.state.Items)}
	subscribers := s.subscribers
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, op)
	s.persist(ctx, snapshot)
	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (s *Store) persist(ctx context.Context, state State) {
	if err := localstore.SaveJSON(ctx, s.kv, localstore.KeyWishlist, state); err != nil {
		s.metrics.IncPersistFailure(storeName)
		if s.logg != nil {
			s.logg.Error(s.logg.WithStore(ctx, storeName), "wishlist persist failed", err)
		}
	}
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(items))
	copy(out, items)
	return out
}
