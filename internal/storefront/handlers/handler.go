package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storefront-system/internal/cart"
	"storefront-system/internal/checkout"
	orderssvc "storefront-system/internal/orders/service"
)

type Handler struct {
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	OrderHandler    *OrderHandler
}

func New(carts *cart.Manager, co *checkout.Service, orders orderssvc.OrderServiceInterface) *Handler {
	return &Handler{
		CartHandler:     NewCartHandler(carts, co),
		CheckoutHandler: NewCheckoutHandler(carts, co),
		OrderHandler:    NewOrderHandler(orders),
	}
}

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem is the single error shape (simplified problem+json).
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
