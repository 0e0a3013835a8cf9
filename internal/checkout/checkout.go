// Package checkout drives order placement: price the cart, settle the
// payment, record the order, announce it, then clear the cart.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront-system/internal/cart"
	"storefront-system/internal/logger"
	"storefront-system/internal/orders/domain/dao"
	"storefront-system/internal/orders/domain/dto"
	orderssvc "storefront-system/internal/orders/service"
	"storefront-system/internal/payment"
	"storefront-system/internal/pricing"
)

var (
	// ErrEmptyCart blocks checkout when there is nothing to pay.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentRequired means an online order arrived without a
	// payment intent reference.
	ErrPaymentRequired = errors.New("payment intent id is required for online payment")
	// ErrAmountMismatch means the settled intent does not match the
	// cart's grand total.
	ErrAmountMismatch = errors.New("paid amount does not match order total")
	// ErrPaymentsDisabled is returned when no payment provider is
	// configured but an online flow was requested.
	ErrPaymentsDisabled = errors.New("online payments are not configured")
)

// Publisher announces placed orders; the broker client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}

type Service struct {
	orders    orderssvc.OrderServiceInterface
	provider  payment.Provider
	publisher Publisher
	log       *logger.Logger
}

func New(orders orderssvc.OrderServiceInterface, provider payment.Provider, publisher Publisher, log *logger.Logger) *Service {
	return &Service{orders: orders, provider: provider, publisher: publisher, log: log}
}

// Summary prices the cart as the checkout views display it.
func (s *Service) Summary(store *cart.Store, v cart.Vertical) pricing.Breakdown {
	return pricing.Compute(store.Subtotal(v), v)
}

// CreateIntent opens a card payment for the cart's current grand total.
// An empty cart never reaches the payment collaborator.
func (s *Service) CreateIntent(ctx context.Context, store *cart.Store, v cart.Vertical) (payment.Intent, error) {
	if s.provider == nil {
		return payment.Intent{}, ErrPaymentsDisabled
	}
	b := s.Summary(store, v)
	if b.GrandTotal.Sign() <= 0 {
		return payment.Intent{}, ErrEmptyCart
	}
	desc := fmt.Sprintf("%s order for session %s", v, store.SessionID())
	return s.provider.CreateIntent(ctx, pricing.MinorUnits(b.GrandTotal), desc)
}

// PlaceOrder runs the full checkout flow for one vertical. A declined
// payment or a failed order write aborts before the cart is touched, so
// the caller can retry. The order-placed event is best-effort: the
// order is already durable when it is published.
func (s *Service) PlaceOrder(ctx context.Context, store *cart.Store, v cart.Vertical, req dto.PlaceOrderRequest) (dao.Order, error) {
	items := store.Items(v)
	if len(items) == 0 {
		return dao.Order{}, ErrEmptyCart
	}
	b := s.Summary(store, v)

	order := dao.Order{
		Vertical:      v,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      b.Subtotal,
		HandlingFee:   b.HandlingCharge,
		DeliveryFee:   b.DeliveryCharge,
		GrandTotal:    b.GrandTotal,
		FirstName:     req.Form.FirstName,
		LastName:      req.Form.LastName,
		Gender:        req.Form.Gender,
		Address:       req.Form.FlatAddress(),
		City:          req.Form.City,
		State:         req.Form.State,
		PinCode:       req.Form.PinCode,
		Phone:         req.Form.Phone,
	}
	for _, it := range items {
		order.Items = append(order.Items, dao.OrderItem{
			ItemID:   it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		})
	}

	if req.PaymentMethod == dao.PaymentOnline {
		ref, err := s.verifyPayment(ctx, req.PaymentIntentID, b)
		if err != nil {
			return dao.Order{}, err
		}
		order.PaymentRef = ref
	}

	recorded, err := s.orders.RecordOrder(ctx, order)
	if err != nil {
		return dao.Order{}, err
	}

	s.announce(ctx, recorded)
	store.Clear(ctx, v)
	return recorded, nil
}

// verifyPayment re-reads the intent from the provider and requires a
// settled payment for exactly the grand total.
func (s *Service) verifyPayment(ctx context.Context, intentID string, b pricing.Breakdown) (string, error) {
	if s.provider == nil {
		return "", ErrPaymentsDisabled
	}
	if strings.TrimSpace(intentID) == "" {
		return "", ErrPaymentRequired
	}
	intent, err := s.provider.GetIntent(ctx, intentID)
	if err != nil {
		return "", fmt.Errorf("verify payment: %w", err)
	}
	if !intent.Succeeded {
		return "", payment.ErrNotSucceeded
	}
	if intent.Amount != pricing.MinorUnits(b.GrandTotal) {
		return "", ErrAmountMismatch
	}
	return intent.ID, nil
}

func (s *Service) announce(ctx context.Context, order dao.Order) {
	if s.publisher == nil {
		return
	}
	msg := dao.OrderPlacedMessage{
		OrderNumber:   order.OrderNumber,
		Vertical:      order.Vertical,
		PaymentMethod: order.PaymentMethod,
		GrandTotal:    order.GrandTotal,
		CustomerName:  strings.TrimSpace(order.FirstName + " " + order.LastName),
		Phone:         order.Phone,
		Items:         order.Items,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal order event", zap.Error(err))
		return
	}
	key := fmt.Sprintf("orders.%s", order.Vertical)
	if err := s.publisher.Publish(ctx, key, body); err != nil {
		s.log.Error("publish order event",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}
