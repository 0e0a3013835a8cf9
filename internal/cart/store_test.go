package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKeeper records snapshots in memory for store tests.
type memKeeper struct {
	snapshots map[string][]Item
	saves     int
}

func newMemKeeper() *memKeeper { return &memKeeper{snapshots: make(map[string][]Item)} }

func (m *memKeeper) key(sessionID string, v Vertical) string { return sessionID + "/" + string(v) }

func (m *memKeeper) Save(_ context.Context, sessionID string, v Vertical, items []Item) error {
	m.saves++
	m.snapshots[m.key(sessionID, v)] = items
	return nil
}

func (m *memKeeper) Load(_ context.Context, sessionID string, v Vertical) ([]Item, error) {
	return m.snapshots[m.key(sessionID, v)], nil
}

func item(id int, price int64) Item {
	return Item{ID: id, Name: "item", Price: decimal.NewFromInt(price)}
}

func TestAdd_MergesSameID(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)

	for i := 0; i < 5; i++ {
		s.Add(ctx, Shopping, item(1, 100))
	}

	items := s.Items(Shopping)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, s.Count(Shopping))
}

func TestAdd_StampsKindAndQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)

	it := item(7, 50)
	it.Kind = Shopping // caller's tag is ignored, collection wins
	it.Quantity = 99
	s.Add(ctx, Food, it)

	items := s.Items(Food)
	require.Len(t, items, 1)
	assert.Equal(t, Food, items[0].Kind)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAdd_CollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)

	s.Add(ctx, Shopping, item(1, 100))
	s.Add(ctx, Food, item(1, 200))
	s.Add(ctx, Grocery, item(1, 300))

	assert.Equal(t, 1, s.Count(Shopping))
	assert.Equal(t, 1, s.Count(Food))
	assert.Equal(t, 1, s.Count(Grocery))
	assert.True(t, s.Subtotal(Food).Equal(decimal.NewFromInt(200)))
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)

	s.Add(ctx, Shopping, item(3, 10))
	s.Add(ctx, Shopping, item(1, 10))
	s.Add(ctx, Shopping, item(2, 10))
	s.Add(ctx, Shopping, item(1, 10)) // merge, order unchanged

	var ids []int
	for _, it := range s.Items(Shopping) {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)
	s.Add(ctx, Food, item(1, 80))

	s.UpdateQuantity(ctx, Food, 1, 4)
	assert.Equal(t, 4, s.Items(Food)[0].Quantity)

	// below 1 is accepted but ignored
	s.UpdateQuantity(ctx, Food, 1, 0)
	assert.Equal(t, 4, s.Items(Food)[0].Quantity)
	s.UpdateQuantity(ctx, Food, 1, -1)
	assert.Equal(t, 4, s.Items(Food)[0].Quantity)

	// unknown id is a silent no-op
	s.UpdateQuantity(ctx, Food, 99, 2)
	require.Len(t, s.Items(Food), 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)
	s.Add(ctx, Grocery, item(1, 100))
	s.Add(ctx, Grocery, item(2, 50))
	s.Add(ctx, Grocery, item(2, 50))

	s.Remove(ctx, Grocery, 2)
	assert.Equal(t, 1, s.Count(Grocery))
	assert.True(t, s.Subtotal(Grocery).Equal(decimal.NewFromInt(100)))

	// removing again changes nothing
	s.Remove(ctx, Grocery, 2)
	assert.Equal(t, 1, s.Count(Grocery))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)
	s.Add(ctx, Shopping, item(1, 100))
	s.Add(ctx, Shopping, item(2, 200))

	s.Clear(ctx, Shopping)
	assert.Equal(t, 0, s.Count(Shopping))
	assert.True(t, s.Subtotal(Shopping).IsZero())
	assert.Empty(t, s.Items(Shopping))
}

func TestSubtotal(t *testing.T) {
	ctx := context.Background()
	s := NewStore("sess", nil, nil)

	it := item(1, 0)
	it.Price = decimal.RequireFromString("99.95")
	s.Add(ctx, Shopping, it)
	s.Add(ctx, Shopping, it)
	s.Add(ctx, Shopping, item(2, 10))

	// repeated exact decimal addition, no float drift
	assert.Equal(t, "209.90", s.Subtotal(Shopping).StringFixed(2))
}

func TestPersistence_SnapshotOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()
	s := NewStore("sess", keeper, nil)

	s.Add(ctx, Shopping, item(1, 100))
	s.UpdateQuantity(ctx, Shopping, 1, 3)
	s.Remove(ctx, Shopping, 1)
	s.Clear(ctx, Shopping)
	assert.Equal(t, 4, keeper.saves)

	// ignored mutations do not persist
	s.UpdateQuantity(ctx, Shopping, 1, 0)
	s.Remove(ctx, Shopping, 42)
	assert.Equal(t, 4, keeper.saves)
}

func TestManager_RestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	keeper := newMemKeeper()

	first := NewManager(keeper, nil).Store(ctx, "sess")
	first.Add(ctx, Food, item(1, 120))
	first.Add(ctx, Food, item(1, 120))
	first.Add(ctx, Grocery, item(9, 60))

	// a fresh manager simulates a process restart
	second := NewManager(keeper, nil).Store(ctx, "sess")
	assert.Equal(t, first.Items(Food), second.Items(Food))
	assert.Equal(t, first.Items(Grocery), second.Items(Grocery))
	assert.Equal(t, 2, second.Count(Food))
}

func TestManager_SameStorePerSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newMemKeeper(), nil)

	a := m.Store(ctx, "one")
	b := m.Store(ctx, "one")
	c := m.Store(ctx, "two")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
