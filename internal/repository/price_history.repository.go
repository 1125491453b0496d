package repository

import (
	"context"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/pkg/pg"
)

// PriceHistoryRepository only appends and lists. There are no update or
// delete paths; the audit trail is immutable.
type PriceHistoryRepository struct {
	*pg.DB
}

func NewPriceHistoryRepository(db *pg.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{
		db,
	}
}

func (r *PriceHistoryRepository) Create(ctx context.Context, ph *model.PriceHistory) (*model.PriceHistory, error) {
	entity := toPriceHistoryEntity(ph)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toPriceHistoryModel(entity), nil
}

// ListByItem returns the change log for an item, oldest first, as shown
// in the audit display.
func (r *PriceHistoryRepository) ListByItem(ctx context.Context, itemID int64) ([]*model.PriceHistory, error) {
	var entities []*PriceHistoryEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("changed_at ASC, id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toPriceHistoryModels(entities), nil
}
