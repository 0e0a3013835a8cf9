package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"storefront-system/internal/orders/domain/dao"
	"storefront-system/internal/orders/domain/dto"
	orderssvc "storefront-system/internal/orders/service"
)

type OrderHandler struct {
	service orderssvc.OrderServiceInterface
}

func NewOrderHandler(s orderssvc.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// ListOrders backs both the admin table and the user dashboard,
// newest first.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if orders == nil {
		orders = []dao.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := atoiDefault(chi.URLParam(r, "id"), -1)
	if id < 0 {
		writeProblem(w, http.StatusBadRequest, "invalid_id", "invalid order id")
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if errors.Is(err, orderssvc.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus is the admin status toggle.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := atoiDefault(chi.URLParam(r, "id"), -1)
	if id < 0 {
		writeProblem(w, http.StatusBadRequest, "invalid_id", "invalid order id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.NewStatus, req.ChangedBy)
	switch {
	case err == nil:
	case errors.Is(err, orderssvc.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, orderssvc.ErrInvalidStatus):
		writeProblem(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	case errors.Is(err, orderssvc.ErrOrderDelivered):
		writeProblem(w, http.StatusConflict, "order_delivered", err.Error())
		return
	default:
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id := atoiDefault(chi.URLParam(r, "id"), -1)
	if id < 0 {
		writeProblem(w, http.StatusBadRequest, "invalid_id", "invalid order id")
		return
	}

	events, err := h.service.GetTimeline(r.Context(), id)
	if errors.Is(err, orderssvc.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "events": events})
}
