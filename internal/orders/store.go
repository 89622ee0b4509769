package orders

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luxe-commerce/storefront/internal/cart"
	"github.com/luxe-commerce/storefront/pkg/enums"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/localstore"
	"github.com/luxe-commerce/storefront/pkg/logger"
	"github.com/luxe-commerce/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

const storeName = "orders"

// State is the persisted orders bucket: history newest-first plus the
// last-created-or-viewed pointer.
type State struct {
	Orders       []Order `json:"orders"`
	CurrentOrder *Order  `json:"currentOrder"`
}

// StoreParams groups dependencies for the order store. Now and Rand default
// to the wall clock and a seeded generator; tests override them.
type StoreParams struct {
	KV      localstore.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
	Rand    *rand.Rand
}

// Store holds order history. Orders are append-only; only status and the
// updated timestamp change after creation.
type Store struct {
	mu          sync.Mutex
	state       State
	kv          localstore.KV
	logg        *logger.Logger
	metrics     *metrics.StoreMetrics
	now         func() time.Time
	rng         *rand.Rand
	subscribers []func(State)
}

// NewStore builds the order store and rehydrates it from its bucket.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kv is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	rng := params.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	s := &Store{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
		rng:     rng,
	}
	if _, err := localstore.LoadJSON(ctx, s.kv, localstore.KeyOrders, &s.state); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStore(ctx, storeName), "orders bucket unreadable, starting empty")
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

// AddOrder snapshots the cart lines into a new confirmed order, prepends it
// to history and points CurrentOrder at it.
func (s *Store) AddOrder(ctx context.Context, items []cart.Item, shipping ShippingAddress, paymentMethod enums.PaymentMethod, subtotal decimal.Decimal) Order {
	s.mu.Lock()

	createdAt := s.now().UTC()
	pricing := ComputePricing(subtotal)

	orderItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, OrderItem{
			ProductID:     item.Product.ID,
			ProductName:   item.Product.Name,
			ProductImage:  item.Product.FirstImage(),
			Quantity:      item.Quantity,
			Price:         item.Product.Price,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
	}

	order := Order{
		ID:                uuid.NewString(),
		OrderNumber:       generateOrderNumber(createdAt, s.rng),
		Items:             orderItems,
		ShippingAddress:   shipping,
		PaymentMethod:     paymentMethod,
		Subtotal:          pricing.Subtotal,
		Shipping:          pricing.Shipping,
		Tax:               pricing.Tax,
		Discount:          pricing.Discount,
		Total:             pricing.Total,
		Status:            enums.OrderStatusConfirmed,
		TrackingNumber:    generateTrackingNumber(s.rng),
		EstimatedDelivery: estimatedDelivery(createdAt, s.rng),
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
		TrackingEvents:    seedTrackingEvents(createdAt),
	}

	s.state.Orders = append([]Order{order}, s.state.Orders...)
	current := order
	s.state.CurrentOrder = &current

	snapshot := s.snapshotLocked()
	subscribers := s.subscribers
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, "add_order")
	s.persist(ctx, snapshot)
	for _, fn := range subscribers {
		fn(snapshot)
	}
	return order
}

// GetOrder returns the order with the given id, or nil when absent.
func (s *Store) GetOrder(id string) *Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == id {
			order := s.state.Orders[i]
			return &order
		}
	}
	return nil
}

// GetOrderByNumber returns the order with the given human-readable number,
// or nil when absent.
func (s *Store) GetOrderByNumber(orderNumber string) *Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Orders {
		if s.state.Orders[i].OrderNumber == orderNumber {
			order := s.state.Orders[i]
			return &order
		}
	}
	return nil
}

// Orders returns the history, newest first.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.state.Orders))
	copy(out, s.state.Orders)
	return out
}

// CurrentOrder returns the last created or explicitly selected order.
func (s *Store) CurrentOrder() *Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentOrder == nil {
		return nil
	}
	order := *s.state.CurrentOrder
	return &order
}

// UpdateOrderStatus replaces the status and refreshes UpdatedAt. Any known
// status is accepted in any direction; ordering is a display convention, not
// a store rule. The tracking log is left untouched.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": status.String()})
	}

	s.mu.Lock()
	found := false
	for i := range s.state.Orders {
		if s.state.Orders[i].ID == id {
			s.state.Orders[i].Status = status
			s.state.Orders[i].UpdatedAt = s.now().UTC()
			if s.state.CurrentOrder != nil && s.state.CurrentOrder.ID == id {
				current := s.state.Orders[i]
				s.state.CurrentOrder = &current
			}
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	snapshot := s.snapshotLocked()
	subscribers := s.subscribers
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, "update_status")
	s.persist(ctx, snapshot)
	for _, fn := range subscribers {
		fn(snapshot)
	}
	return nil
}

// SetCurrentOrder sets or clears the last-viewed pointer.
func (s *Store) SetCurrentOrder(ctx context.Context, order *Order) {
	s.mu.Lock()
	if order == nil {
		s.state.CurrentOrder = nil
	} else {
		current := *order
		s.state.CurrentOrder = &current
	}
	snapshot := s.snapshotLocked()
	subscribers := s.subscribers
	s.mu.Unlock()

	s.metrics.IncMutation(storeName, "set_current")
	s.persist(ctx, snapshot)
	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (s *Store) snapshotLocked() State {
	snapshot := State{Orders: make([]Order, len(s.state.Orders))}
	copy(snapshot.Orders, s.state.Orders)
	if s.state.CurrentOrder != nil {
		current := *s.state.CurrentOrder
		snapshot.CurrentOrder = &current
	}
	return snapshot
}

func (s *Store) persist(ctx context.Context, state State) {
	if err := localstore.SaveJSON(ctx, s.kv, localstore.KeyOrders, state); err != nil {
		s.metrics.IncPersistFailure(storeName)
		if s.logg != nil {
			s.logg.Error(s.logg.WithStore(ctx, storeName), "orders persist failed", err)
		}
	}
}
