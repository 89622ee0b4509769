package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luxe-commerce/storefront/api/controllers"
	"github.com/luxe-commerce/storefront/api/middleware"
	"github.com/luxe-commerce/storefront/internal/cart"
	"github.com/luxe-commerce/storefront/internal/catalog"
	checkoutsvc "github.com/luxe-commerce/storefront/internal/checkout"
	"github.com/luxe-commerce/storefront/internal/orders"
	"github.com/luxe-commerce/storefront/internal/session"
	"github.com/luxe-commerce/storefront/internal/wishlist"
	"github.com/luxe-commerce/storefront/pkg/config"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	StateFile   controllers.Pinger
	Catalog     *catalog.Catalog
	Cart        *cart.Store
	Wishlist    *wishlist.Store
	Orders      *orders.Store
	Session     *session.Store
	Credentials *session.Registry
	Checkout    *checkoutsvc.Service
}

// NewRouter mounts the public endpoints and the gated storefront surface.
// The gate is the persisted session flag, re-checked per request; a token
// outlives a logout only in the caller's hands, never here.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.StateFile))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Credentials, deps.Session, cfg.JWT, logg))
		r.Post("/login", controllers.AuthLogin(deps.Credentials, deps.Session, cfg.JWT, logg))
		r.Post("/guest", controllers.AuthGuest(deps.Session, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, deps.Session, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Session, logg))
			r.Get("/session", controllers.AuthSession(deps.Session, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, deps.Session, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Catalog, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Post("/visibility", controllers.CartVisibility(deps.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(deps.Wishlist, logg))
			r.Post("/items", controllers.WishlistAdd(deps.Wishlist, deps.Catalog, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
			r.Post("/items/{productId}/toggle", controllers.WishlistToggle(deps.Wishlist, deps.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/current", controllers.CurrentOrderFetch(deps.Orders, logg))
			r.Post("/current", controllers.CurrentOrderSet(deps.Orders, logg))
			r.Delete("/current", controllers.CurrentOrderClear(deps.Orders, logg))
			r.Get("/number/{orderNumber}", controllers.OrderByNumber(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.Orders, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
	})

	return r
}
