package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-system/internal/orders/domain/dao"
	"storefront-system/internal/orders/repository"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrOrderDelivered = errors.New("delivered orders cannot be changed")
)

type OrderServiceInterface interface {
	RecordOrder(ctx context.Context, order dao.Order) (dao.Order, error)
	ListOrders(ctx context.Context) ([]dao.Order, error)
	GetOrder(ctx context.Context, id int) (dao.Order, error)
	UpdateStatus(ctx context.Context, id int, newStatus, changedBy string) (dao.Order, error)
	GetTimeline(ctx context.Context, id int) ([]dao.StatusEvent, error)
}

type OrderService struct {
	db repository.OrderRepositoryInterface
}

func NewOrderService(db repository.OrderRepositoryInterface) OrderServiceInterface {
	return &OrderService{db: db}
}

func validStatus(s string) bool {
	switch s {
	case dao.StatusPending, dao.StatusProcessing, dao.StatusShipped, dao.StatusDelivered, dao.StatusCancelled:
		return true
	}
	return false
}

// RecordOrder stamps an order number and persists the order with its
// initial pending status.
func (os *OrderService) RecordOrder(ctx context.Context, order dao.Order) (dao.Order, error) {
	if len(order.Items) == 0 {
		return dao.Order{}, errors.New("at least one item is required")
	}
	if order.PaymentMethod != dao.PaymentCashOnDelivery && order.PaymentMethod != dao.PaymentOnline {
		return dao.Order{}, fmt.Errorf("invalid payment method %q", order.PaymentMethod)
	}
	if order.FirstName == "" {
		return dao.Order{}, errors.New("first name is required")
	}
	if order.Phone == "" {
		return dao.Order{}, errors.New("phone is required")
	}

	// Order number: ORD_YYYYMMDD_NNN
	today := time.Now().UTC().Format("20060102")
	sequence, err := os.db.GetOrderCount(ctx)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order count: %w", err)
	}
	order.OrderNumber = fmt.Sprintf("ORD_%s_%03d", today, sequence)
	order.Status = dao.StatusPending

	id, err := os.db.AddOrder(ctx, order)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	order.ID = id
	return order, nil
}

func (os *OrderService) ListOrders(ctx context.Context) ([]dao.Order, error) {
	return os.db.ListOrders(ctx)
}

func (os *OrderService) GetOrder(ctx context.Context, id int) (dao.Order, error) {
	order, err := os.db.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return dao.Order{}, ErrNotFound
	}
	return order, err
}

// UpdateStatus applies an admin status toggle. Delivered orders are
// locked against further changes.
func (os *OrderService) UpdateStatus(ctx context.Context, id int, newStatus, changedBy string) (dao.Order, error) {
	if !validStatus(newStatus) {
		return dao.Order{}, ErrInvalidStatus
	}
	if changedBy == "" {
		changedBy = "admin"
	}

	existing, err := os.GetOrder(ctx, id)
	if err != nil {
		return dao.Order{}, err
	}
	if existing.Status == dao.StatusDelivered {
		return dao.Order{}, ErrOrderDelivered
	}

	if err := os.db.UpdateStatus(ctx, id, newStatus, changedBy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dao.Order{}, ErrNotFound
		}
		return dao.Order{}, err
	}
	existing.Status = newStatus
	return existing, nil
}

func (os *OrderService) GetTimeline(ctx context.Context, id int) ([]dao.StatusEvent, error) {
	if _, err := os.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return os.db.GetStatusLog(ctx, id)
}
