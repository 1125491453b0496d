package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukabook/duka-ledger/internal/model"
)

func TestItemRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewItemRepository(db)
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		item, err := repo.Create(ctx, &model.Item{
			Name:     "Bread",
			Price:    decimal.RequireFromString("50.00"),
			IsActive: true,
		})
		require.NoError(t, err)
		assert.NotZero(t, item.ID)
		assert.Equal(t, "Bread", item.Name)
		assert.True(t, item.Price.Equal(decimal.RequireFromString("50.00")))
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Item{
			Name:     "Bread",
			Price:    decimal.RequireFromString("60.00"),
			IsActive: true,
		})
		assert.ErrorIs(t, err, ErrDuplicateItemName)
	})
}

func TestItemRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewItemRepository(db)
	ctx := context.Background()

	seed := []struct {
		name   string
		active bool
	}{
		{"Sugar", true},
		{"Bread", true},
		{"Matches", false},
	}
	for _, s := range seed {
		_, err := repo.Create(ctx, &model.Item{
			Name:     s.name,
			Price:    decimal.RequireFromString("10.00"),
			IsActive: s.active,
		})
		require.NoError(t, err)
	}

	t.Run("active only, ordered by name", func(t *testing.T) {
		items, err := repo.List(ctx, true)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Bread", items[0].Name)
		assert.Equal(t, "Sugar", items[1].Name)
	})

	t.Run("all items", func(t *testing.T) {
		items, err := repo.List(ctx, false)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestItemRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewItemRepository(db)
	ctx := context.Background()

	item, err := repo.Create(ctx, &model.Item{
		Name:     "Milk",
		Price:    decimal.RequireFromString("65.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	t.Run("successful update", func(t *testing.T) {
		item.Price = decimal.RequireFromString("70.00")
		updated, err := repo.Update(ctx, item)
		require.NoError(t, err)
		assert.True(t, updated.Price.Equal(decimal.RequireFromString("70.00")))

		fetched, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, fetched.Price.Equal(decimal.RequireFromString("70.00")))
	})

	t.Run("item not found", func(t *testing.T) {
		_, err := repo.Update(ctx, &model.Item{
			ID:    999,
			Name:  "Ghost",
			Price: decimal.RequireFromString("1.00"),
		})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestItemRepository_Deactivate(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewItemRepository(db)
	ctx := context.Background()

	item, err := repo.Create(ctx, &model.Item{
		Name:     "Soap",
		Price:    decimal.RequireFromString("25.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	t.Run("deactivates without deleting", func(t *testing.T) {
		err := repo.Deactivate(ctx, item.ID)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, fetched.IsActive)

		active, err := repo.List(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("item not found", func(t *testing.T) {
		err := repo.Deactivate(ctx, 999)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}
