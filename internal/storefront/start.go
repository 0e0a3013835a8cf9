// Package storefront wires the HTTP API: carts, checkout and the order
// dashboard behind one chi router.
package storefront

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"storefront-system/internal/cart"
	"storefront-system/internal/checkout"
	"storefront-system/internal/connections/rabbitmq"
	"storefront-system/internal/httpx"
	"storefront-system/internal/logger"
	"storefront-system/internal/orders/repository"
	"storefront-system/internal/orders/service"
	"storefront-system/internal/payment"
	"storefront-system/internal/storefront/handlers"
)

type Deps struct {
	DB       *sql.DB
	Keeper   cart.Keeper
	Rabbit   *rabbitmq.Client
	Provider payment.Provider
	Log      *logger.Logger
}

// Run builds the service graph and serves until ctx is canceled.
func Run(ctx context.Context, addr string, deps Deps) error {
	repo := repository.New(deps.DB)
	svc := service.New(repo)

	var publisher checkout.Publisher
	if deps.Rabbit != nil {
		publisher = deps.Rabbit
	}
	co := checkout.New(svc.OrderService, deps.Provider, publisher, deps.Log)
	carts := cart.NewManager(deps.Keeper, deps.Log)

	h := handlers.New(carts, co, svc.OrderService)

	server := httpx.New(addr, Router(h, deps.Log))
	deps.Log.Info("storefront listening", zap.String("addr", addr))
	return server.Run(ctx)
}

// Router mounts all API routes.
func Router(h *handlers.Handler, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Use(handlers.SessionMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carts/{vertical}", func(r chi.Router) {
			r.Get("/", h.CartHandler.GetCart)
			r.Delete("/", h.CartHandler.Clear)
			r.Post("/items", h.CartHandler.AddItem)
			r.Patch("/items/{id}", h.CartHandler.UpdateQuantity)
			r.Delete("/items/{id}", h.CartHandler.RemoveItem)
		})

		r.Route("/checkout/{vertical}", func(r chi.Router) {
			r.Post("/intent", h.CheckoutHandler.CreateIntent)
			r.Post("/", h.CheckoutHandler.PlaceOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.OrderHandler.ListOrders)
			r.Get("/{id}", h.OrderHandler.GetOrder)
			r.Get("/{id}/timeline", h.OrderHandler.GetTimeline)
			r.Patch("/{id}/status", h.OrderHandler.UpdateStatus)
		})
	})

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)))
		})
	}
}
