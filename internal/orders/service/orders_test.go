package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/cart"
	"storefront-system/internal/orders/domain/dao"
	"storefront-system/internal/orders/repository"
)

type fakeRepo struct {
	orders map[int]dao.Order
	log    map[int][]dao.StatusEvent
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[int]dao.Order), log: make(map[int][]dao.StatusEvent), nextID: 1}
}

func (f *fakeRepo) AddOrder(_ context.Context, order dao.Order) (int, error) {
	id := f.nextID
	f.nextID++
	order.ID = id
	f.orders[id] = order
	f.log[id] = append(f.log[id], dao.StatusEvent{Status: order.Status, ChangedBy: "storefront"})
	return id, nil
}

func (f *fakeRepo) GetOrderCount(context.Context) (int, error) { return len(f.orders), nil }

func (f *fakeRepo) ListOrders(context.Context) ([]dao.Order, error) {
	out := make([]dao.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id int) (dao.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return dao.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int, status, changedBy string) error {
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	f.log[id] = append(f.log[id], dao.StatusEvent{Status: status, ChangedBy: changedBy})
	return nil
}

func (f *fakeRepo) GetStatusLog(_ context.Context, id int) ([]dao.StatusEvent, error) {
	return f.log[id], nil
}

func validOrder() dao.Order {
	return dao.Order{
		Vertical:      cart.Shopping,
		PaymentMethod: dao.PaymentCashOnDelivery,
		GrandTotal:    decimal.NewFromInt(565),
		FirstName:     "Asha",
		Phone:         "9999999999",
		Items:         []dao.OrderItem{{ItemID: 1, Name: "item", Price: decimal.NewFromInt(500), Quantity: 1}},
	}
}

func TestRecordOrder_StampsNumberAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newFakeRepo())

	order, err := svc.RecordOrder(ctx, validOrder())
	require.NoError(t, err)
	assert.Regexp(t, `^ORD_\d{8}_\d{3}$`, order.OrderNumber)
	assert.Equal(t, dao.StatusPending, order.Status)
	assert.Equal(t, 1, order.ID)
}

func TestRecordOrder_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newFakeRepo())

	noItems := validOrder()
	noItems.Items = nil
	_, err := svc.RecordOrder(ctx, noItems)
	assert.Error(t, err)

	badMethod := validOrder()
	badMethod.PaymentMethod = "upi"
	_, err = svc.RecordOrder(ctx, badMethod)
	assert.Error(t, err)

	noName := validOrder()
	noName.FirstName = ""
	_, err = svc.RecordOrder(ctx, noName)
	assert.Error(t, err)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewOrderService(repo)

	order, err := svc.RecordOrder(ctx, validOrder())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, dao.StatusShipped, "admin")
	require.NoError(t, err)
	assert.Equal(t, dao.StatusShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "lost", "admin")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 99, dao.StatusShipped, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_DeliveredIsLocked(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newFakeRepo())

	order, err := svc.RecordOrder(ctx, validOrder())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, dao.StatusDelivered, "admin")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, dao.StatusPending, "admin")
	assert.ErrorIs(t, err, ErrOrderDelivered)
}

func TestGetTimeline(t *testing.T) {
	ctx := context.Background()
	svc := NewOrderService(newFakeRepo())

	order, err := svc.RecordOrder(ctx, validOrder())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, order.ID, dao.StatusProcessing, "admin")
	require.NoError(t, err)

	events, err := svc.GetTimeline(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, dao.StatusPending, events[0].Status)
	assert.Equal(t, dao.StatusProcessing, events[1].Status)

	_, err = svc.GetTimeline(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
