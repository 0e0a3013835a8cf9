package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"storefront-system/internal/cart"
	"storefront-system/internal/checkout"
	"storefront-system/internal/orders/domain/dto"
	"storefront-system/internal/payment"
)

type CheckoutHandler struct {
	carts    *cart.Manager
	checkout *checkout.Service
}

func NewCheckoutHandler(carts *cart.Manager, co *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, checkout: co}
}

func (h *CheckoutHandler) vertical(w http.ResponseWriter, r *http.Request) (cart.Vertical, bool) {
	v, err := cart.ParseVertical(chi.URLParam(r, "vertical"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_vertical", err.Error())
		return "", false
	}
	return v, true
}

// CreateIntent opens the card payment for the cart's grand total and
// hands the client secret back to the card form.
func (h *CheckoutHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}
	store := h.carts.Store(r.Context(), sessionID(r))

	intent, err := h.checkout.CreateIntent(r.Context(), store, v)
	if errors.Is(err, checkout.ErrEmptyCart) {
		writeProblem(w, http.StatusBadRequest, "empty_cart", "nothing to pay")
		return
	}
	if errors.Is(err, checkout.ErrPaymentsDisabled) {
		writeProblem(w, http.StatusServiceUnavailable, "payments_disabled", err.Error())
		return
	}
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "payment_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
	})
}

// PlaceOrder finalizes checkout. Payment problems surface as retryable
// failures; the cart is cleared only after the order is recorded.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	store := h.carts.Store(r.Context(), sessionID(r))
	order, err := h.checkout.PlaceOrder(r.Context(), store, v, req)
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrEmptyCart):
		writeProblem(w, http.StatusBadRequest, "empty_cart", "nothing to pay")
		return
	case errors.Is(err, checkout.ErrPaymentRequired),
		errors.Is(err, checkout.ErrAmountMismatch),
		errors.Is(err, payment.ErrNotSucceeded):
		writeProblem(w, http.StatusPaymentRequired, "payment_failed", err.Error())
		return
	case errors.Is(err, checkout.ErrPaymentsDisabled):
		writeProblem(w, http.StatusServiceUnavailable, "payments_disabled", err.Error())
		return
	default:
		writeProblem(w, http.StatusInternalServerError, "order_failed", "failed to place order, please retry: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PlaceOrderResponse{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		GrandTotal:  order.GrandTotal,
	})
}
