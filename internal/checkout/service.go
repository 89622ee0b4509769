package checkout

import (
	"context"

	"github.com/luxe-commerce/storefront/internal/cart"
	"github.com/luxe-commerce/storefront/internal/orders"
	"github.com/luxe-commerce/storefront/pkg/enums"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart   *cart.Store
	Orders *orders.Store
	Logger *logger.Logger
}

// Service turns the current cart into an order. The "payment" step never
// contacts a processor; the chosen method is stored as-is.
type Service struct {
	cart   *cart.Store
	orders *orders.Store
	logg   *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order store is required")
	}
	return &Service{
		cart:   params.Cart,
		orders: params.Orders,
		logg:   params.Logger,
	}, nil
}

// PlaceOrderInput carries the frozen checkout form.
type PlaceOrderInput struct {
	Shipping      orders.ShippingAddress
	PaymentMethod enums.PaymentMethod
}

// PlaceOrder snapshots the cart into a new order and then clears the cart.
// The two store mutations are independent: if the cart-clear write fails the
// order still stands and there is no rollback.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (orders.Order, error) {
	if !input.PaymentMethod.IsValid() {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"paymentMethod": input.PaymentMethod.String()})
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := s.cart.TotalPrice()
	order := s.orders.AddOrder(ctx, items, input.Shipping, input.PaymentMethod, subtotal)
	s.cart.Clear(ctx)

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_number": order.OrderNumber,
			"total":        order.Total.String(),
		})
		s.logg.Info(ctx, "order placed")
	}
	return order, nil
}
