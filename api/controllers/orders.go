package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxe-commerce/storefront/api/responses"
	"github.com/luxe-commerce/storefront/api/validators"
	"github.com/luxe-commerce/storefront/internal/checkout"
	"github.com/luxe-commerce/storefront/internal/orders"
	"github.com/luxe-commerce/storefront/pkg/enums"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

type shippingAddressPayload struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address" validate:"required"`
	Apartment string `json:"apartment"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`
}

func (p shippingAddressPayload) toAddress() orders.ShippingAddress {
	return orders.ShippingAddress{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		Apartment: p.Apartment,
		City:      p.City,
		State:     p.State,
		ZipCode:   p.ZipCode,
		Country:   p.Country,
	}
}

type checkoutRequest struct {
	ShippingAddress shippingAddressPayload `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
}

// Checkout snapshots the cart into a new order and clears the cart.
func Checkout(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		order, err := svc.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
			Shipping:      payload.ShippingAddress.toAddress(),
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersList returns the history, newest first.
func OrdersList(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := store.Orders()
		if list == nil {
			list = []orders.Order{}
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order by id.
func OrderDetail(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := store.GetOrder(chi.URLParam(r, "orderId"))
		if order == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderByNumber returns one order by its human-readable number.
func OrderByNumber(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := store.GetOrderByNumber(chi.URLParam(r, "orderNumber"))
		if order == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderUpdateStatus replaces the order status.
func OrderUpdateStatus(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "orderId")
		if err := store.UpdateOrderStatus(r.Context(), id, enums.OrderStatus(payload.Status)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.GetOrder(id))
	}
}

// CurrentOrderFetch returns the last created or selected order, or null.
func CurrentOrderFetch(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.CurrentOrder())
	}
}

type setCurrentOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CurrentOrderSet points the current-order pointer at an existing order.
func CurrentOrderSet(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setCurrentOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order := store.GetOrder(payload.OrderID)
		if order == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		store.SetCurrentOrder(r.Context(), order)
		responses.WriteSuccess(w, order)
	}
}

// CurrentOrderClear drops the pointer.
func CurrentOrderClear(store *orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.SetCurrentOrder(r.Context(), nil)
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
