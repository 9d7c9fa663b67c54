package inventory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartserve/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestSeededInventory(t *testing.T) {
	store := newTestStore(t)
	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, "Chicken Breast", items[0].Name)
	assert.Equal(t, 50, items[0].Quantity)
	assert.Equal(t, "kg", items[0].Unit)
	assert.Equal(t, 10, items[0].MinStock)
	assert.Equal(t, 10, items[9].ID)
}

func TestAddUsesNextID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, Item{Name: "Garlic", Quantity: 3, Unit: "kg", MinStock: 1})
	require.NoError(t, err)
	assert.Equal(t, 11, added.ID)

	require.NoError(t, store.Delete(ctx, 11))
	require.NoError(t, store.Delete(ctx, 10))
	added, err = store.Add(ctx, Item{Name: "Basil", Quantity: 0, Unit: "kg", MinStock: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, added.ID, "ids follow the current maximum")
}

func TestAddRejectsIncompleteItems(t *testing.T) {
	store := newTestStore(t)
	for _, it := range []Item{
		{Quantity: 1, Unit: "kg", MinStock: 1},
		{Name: "Salt", Quantity: 1, MinStock: 1},
		{Name: "Salt", Quantity: -1, Unit: "kg"},
	} {
		_, err := store.Add(context.Background(), it)
		assert.ErrorIs(t, err, ErrInvalidItem)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	updated, err := store.Update(ctx, Item{ID: 3, Name: "Cherry Tomatoes", Quantity: 2, Unit: "kg", MinStock: 5})
	require.NoError(t, err)
	assert.Equal(t, "Cherry Tomatoes", updated.Name)

	got, err := store.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, StatusLow, got.Status())

	_, err = store.Update(ctx, Item{ID: 99, Name: "Ghost", Quantity: 1, Unit: "kg"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, 3))
	_, err = store.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 3), ErrNotFound)
}

func TestLowStock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	low, err := store.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = store.Update(ctx, Item{ID: 8, Name: "Spinach", Quantity: 4, Unit: "kg", MinStock: 4})
	require.NoError(t, err)
	_, err = store.Update(ctx, Item{ID: 9, Name: "Cheese", Quantity: 1, Unit: "kg", MinStock: 5})
	require.NoError(t, err)

	low, err = store.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1, "an item exactly at its minimum is not low")
	assert.Equal(t, "Cheese", low[0].Name)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusInStock, Item{Quantity: 5, MinStock: 5}.Status())
	assert.Equal(t, StatusLow, Item{Quantity: 4, MinStock: 5}.Status())
	assert.Equal(t, StatusOutOfStock, Item{Quantity: 0, MinStock: 5}.Status())
	assert.Equal(t, "Low Stock", StatusLow.Label())
	assert.Equal(t, "In Stock", StatusInStock.Label())
}

func TestItemJSONIncludesStatus(t *testing.T) {
	data, err := json.Marshal(Item{ID: 1, Name: "Rice", Quantity: 1, Unit: "kg", MinStock: 20})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Rice", out["name"])
	assert.Equal(t, "low", out["status"])
	assert.Equal(t, "Low Stock", out["statusLabel"])
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		query string
		first string
	}{
		{"rice", "Rice"},
		{"chick", "Chicken Breast"},
		{"beef", "Ground Beef"},
		{"tomatos", "Tomatoes"},
		{"pottatoes", "Potatoes"},
		{"chese", "Cheese"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			matches, err := store.Search(ctx, tt.query)
			require.NoError(t, err)
			require.NotEmpty(t, matches)
			assert.Equal(t, tt.first, matches[0].Item.Name)
		})
	}

	matches, err := store.Search(ctx, "xylophone")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = store.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Add(ctx, Item{Name: "Garlic", Quantity: 3, Unit: "kg", MinStock: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, 1), context.Canceled)
	_, err = store.Search(ctx, "rice")
	assert.ErrorIs(t, err, context.Canceled)

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 10, "nothing ran under the cancelled context")
}
