package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/luxe-commerce/storefront/api/responses"
	"github.com/luxe-commerce/storefront/api/validators"
	"github.com/luxe-commerce/storefront/internal/cart"
	"github.com/luxe-commerce/storefront/internal/catalog"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

type cartView struct {
	Items      []cart.Item     `json:"items"`
	IsOpen     bool            `json:"isOpen"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func newCartView(store *cart.Store) cartView {
	items := store.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{
		Items:      items,
		IsOpen:     store.IsOpen(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
}

// CartFetch returns the full cart view: lines, sidebar flag and derived
// totals.
func CartFetch(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartView(store))
	}
}

type addCartItemRequest struct {
	ProductID     string `json:"productId" validate:"required"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

// CartAddItem resolves the product and merges it into the cart.
func CartAddItem(store *cart.Store, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := cat.FindByID(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(r.Context(), product, payload.Quantity, payload.SelectedSize, payload.SelectedColor)
		responses.WriteSuccess(w, newCartView(store))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdateItem sets the line quantity; zero or less removes the line.
func CartUpdateItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), payload.Quantity)
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartRemoveItem deletes every line with the product id, variants included.
func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.RemoveItem(r.Context(), chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartClear empties the cart.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(store))
	}
}

type cartVisibilityRequest struct {
	Action string `json:"action" validate:"required,oneof=open close toggle"`
}

// CartVisibility drives the sidebar flag.
func CartVisibility(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartVisibilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch payload.Action {
		case "open":
			store.Open(r.Context())
		case "close":
			store.Close(r.Context())
		case "toggle":
			store.Toggle(r.Context())
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}
