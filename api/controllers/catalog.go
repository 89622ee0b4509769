package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/luxe-commerce/storefront/api/responses"
	"github.com/luxe-commerce/storefront/internal/catalog"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

// ProductList returns the catalog, optionally filtered by category.
func ProductList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := cat.List()
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filtered := make([]catalog.Product, 0, len(products))
			for _, p := range products {
				if strings.EqualFold(p.Category, category) {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductDetail returns one product by id.
func ProductDetail(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := cat.FindByID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
