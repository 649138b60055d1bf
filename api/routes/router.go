package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-cart/api/controllers/cart"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/products"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/session"
)

// NewRouter wires the storefront HTTP surface. redisP may be nil when sessions
// are held in memory; metricsHandler may be nil to disable /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP controllers.Pinger,
	sessionStore *session.Store,
	cookieCodec *session.CookieCodec,
	cartService cart.Service,
	productRepo *products.Repository,
	cartMetrics *metrics.CartMetrics,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, cartMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readyDeps := map[string]controllers.Pinger{"db": dbP}
	if redisP != nil {
		readyDeps["redis"] = redisP
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(productRepo, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(sessionStore, cookieCodec, cfg.Session, logg))

			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Get("/items", cartcontrollers.CartItems(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, cartMetrics, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(cartService, cartMetrics, logg))
			r.Get("/count", cartcontrollers.CartCount(cartService, logg))
			r.Get("/total", cartcontrollers.CartTotal(cartService, logg))
		})
	})

	return r
}
