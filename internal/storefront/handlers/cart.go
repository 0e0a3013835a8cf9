package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"storefront-system/internal/cart"
	"storefront-system/internal/checkout"
)

type CartHandler struct {
	carts    *cart.Manager
	checkout *checkout.Service
}

func NewCartHandler(carts *cart.Manager, co *checkout.Service) *CartHandler {
	return &CartHandler{carts: carts, checkout: co}
}

func (h *CartHandler) vertical(w http.ResponseWriter, r *http.Request) (cart.Vertical, bool) {
	v, err := cart.ParseVertical(chi.URLParam(r, "vertical"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_vertical", err.Error())
		return "", false
	}
	return v, true
}

// AddItem merges an item into the vertical's cart. Quantity is implied:
// one unit per call.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}

	var item cart.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if item.Price.Sign() < 0 {
		writeProblem(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	store := h.carts.Store(r.Context(), sessionID(r))
	store.Add(r.Context(), v, item)
	h.summary(w, r, store, v)
}

// UpdateQuantity sets an entry's quantity. Out-of-range quantities and
// unknown ids are accepted but change nothing, matching the store.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}
	id := atoiDefault(chi.URLParam(r, "id"), -1)

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	store := h.carts.Store(r.Context(), sessionID(r))
	store.UpdateQuantity(r.Context(), v, id, body.Quantity)
	h.summary(w, r, store, v)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}
	id := atoiDefault(chi.URLParam(r, "id"), -1)

	store := h.carts.Store(r.Context(), sessionID(r))
	store.Remove(r.Context(), v, id)
	h.summary(w, r, store, v)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}
	store := h.carts.Store(r.Context(), sessionID(r))
	store.Clear(r.Context(), v)
	h.summary(w, r, store, v)
}

// GetCart returns the collection with its derived totals.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	v, ok := h.vertical(w, r)
	if !ok {
		return
	}
	store := h.carts.Store(r.Context(), sessionID(r))
	h.summary(w, r, store, v)
}

func (h *CartHandler) summary(w http.ResponseWriter, r *http.Request, store *cart.Store, v cart.Vertical) {
	writeJSON(w, http.StatusOK, map[string]any{
		"vertical": v,
		"items":    store.Items(v),
		"count":    store.Count(v),
		"pricing":  h.checkout.Summary(store, v),
	})
}
