package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luxe-commerce/storefront/api/responses"
	"github.com/luxe-commerce/storefront/api/validators"
	"github.com/luxe-commerce/storefront/internal/catalog"
	"github.com/luxe-commerce/storefront/internal/wishlist"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

type wishlistView struct {
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
}

func newWishlistView(store *wishlist.Store) wishlistView {
	items := store.Items()
	if items == nil {
		items = []catalog.Product{}
	}
	return wishlistView{Items: items, Count: len(items)}
}

// WishlistFetch returns the saved products.
func WishlistFetch(store *wishlist.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newWishlistView(store))
	}
}

type wishlistItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// WishlistAdd saves a product; adding twice is a no-op.
func WishlistAdd(store *wishlist.Store, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload wishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := cat.FindByID(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(r.Context(), product)
		responses.WriteSuccess(w, newWishlistView(store))
	}
}

// WishlistRemove drops a product from the list.
func WishlistRemove(store *wishlist.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.RemoveItem(r.Context(), chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, newWishlistView(store))
	}
}

// WishlistToggle is the heart-icon operation: absent adds, present removes.
func WishlistToggle(store *wishlist.Store, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := cat.FindByID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.ToggleItem(r.Context(), product)
		responses.WriteSuccess(w, newWishlistView(store))
	}
}
