package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukabook/duka-ledger/internal/model"
)

func TestPriceHistoryRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t).DB
	itemRepo := NewItemRepository(db)
	repo := NewPriceHistoryRepository(db)
	ctx := context.Background()

	item, err := itemRepo.Create(ctx, &model.Item{
		Name:     "Bread",
		Price:    decimal.RequireFromString("50.00"),
		IsActive: true,
	})
	require.NoError(t, err)

	changes := []struct {
		old string
		new string
	}{
		{"50.00", "55.00"},
		{"55.00", "52.00"},
		{"52.00", "60.00"},
	}
	for _, c := range changes {
		_, err := repo.Create(ctx, &model.PriceHistory{
			ItemID:   item.ID,
			OldPrice: decimal.RequireFromString(c.old),
			NewPrice: decimal.RequireFromString(c.new),
		})
		require.NoError(t, err)
	}

	t.Run("ordered oldest first", func(t *testing.T) {
		history, err := repo.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)

		assert.True(t, history[0].OldPrice.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, history[0].NewPrice.Equal(decimal.RequireFromString("55.00")))
		assert.True(t, history[2].NewPrice.Equal(decimal.RequireFromString("60.00")))

		for _, h := range history {
			assert.Equal(t, item.ID, h.ItemID)
			assert.WithinDuration(t, time.Now(), h.ChangedAt, time.Minute)
		}
	})

	t.Run("empty for unknown item", func(t *testing.T) {
		history, err := repo.ListByItem(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
