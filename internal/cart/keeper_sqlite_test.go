package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKeeper_RoundTrip(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewSQLiteKeeper(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	defer keeper.Close()

	items := []Item{
		{ID: 1, Name: "Masala Dosa", Price: decimal.RequireFromString("149.50"), Veg: true, Kind: Food, Quantity: 2},
		{ID: 4, Name: "Paneer Tikka", Price: decimal.NewFromInt(220), Veg: true, Kind: Food, Quantity: 1},
	}
	require.NoError(t, keeper.Save(ctx, "sess", Food, items))

	got, err := keeper.Load(ctx, "sess", Food)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID)
	assert.Equal(t, items[0].Name, got[0].Name)
	assert.True(t, items[0].Price.Equal(got[0].Price))
	assert.Equal(t, items[0].Quantity, got[0].Quantity)
	assert.Equal(t, Food, got[1].Kind)
}

func TestSQLiteKeeper_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewSQLiteKeeper(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	defer keeper.Close()

	require.NoError(t, keeper.Save(ctx, "sess", Shopping, []Item{{ID: 1, Quantity: 1}}))
	require.NoError(t, keeper.Save(ctx, "sess", Shopping, []Item{}))

	got, err := keeper.Load(ctx, "sess", Shopping)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteKeeper_MissingSnapshot(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewSQLiteKeeper(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	defer keeper.Close()

	got, err := keeper.Load(ctx, "unseen", Grocery)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteKeeper_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	keeper, err := NewSQLiteKeeper(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	defer keeper.Close()

	require.NoError(t, keeper.Save(ctx, "a", Shopping, []Item{{ID: 1, Quantity: 1}}))
	require.NoError(t, keeper.Save(ctx, "a", Food, []Item{{ID: 2, Quantity: 2}}))
	require.NoError(t, keeper.Save(ctx, "b", Shopping, []Item{{ID: 3, Quantity: 3}}))

	got, err := keeper.Load(ctx, "a", Shopping)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}
