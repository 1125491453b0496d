package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
)

type ItemEntity struct {
	ID       int64           `db:"id"        gorm:"primaryKey;autoIncrement;column:id"`
	Name     string          `db:"name"      gorm:"column:name;not null;uniqueIndex"`
	Price    decimal.Decimal `db:"price"     gorm:"column:price;type:decimal(10,2);not null"`
	IsActive bool            `db:"is_active" gorm:"column:is_active;not null;default:true"`
}

func (ItemEntity) TableName() string { return "items" }

type PriceHistoryEntity struct {
	ID        int64           `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	ItemID    int64           `db:"item_id"    gorm:"column:item_id;not null;index"`
	Item      *ItemEntity     `                gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
	OldPrice  decimal.Decimal `db:"old_price"  gorm:"column:old_price;type:decimal(10,2);not null"`
	NewPrice  decimal.Decimal `db:"new_price"  gorm:"column:new_price;type:decimal(10,2);not null"`
	ChangedAt time.Time       `db:"changed_at" gorm:"column:changed_at;autoCreateTime"`
}

func (PriceHistoryEntity) TableName() string { return "price_history" }

func toItemEntity(m *model.Item) *ItemEntity {
	if m == nil {
		return nil
	}
	return &ItemEntity{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		IsActive: m.IsActive,
	}
}

func toItemModel(e *ItemEntity) *model.Item {
	if e == nil {
		return nil
	}
	return &model.Item{
		ID:       e.ID,
		Name:     e.Name,
		Price:    e.Price,
		IsActive: e.IsActive,
	}
}

func toItemModels(entities []*ItemEntity) []*model.Item {
	if entities == nil {
		return nil
	}
	models := make([]*model.Item, len(entities))
	for i, e := range entities {
		models[i] = toItemModel(e)
	}
	return models
}

func toPriceHistoryEntity(m *model.PriceHistory) *PriceHistoryEntity {
	if m == nil {
		return nil
	}
	return &PriceHistoryEntity{
		ID:        m.ID,
		ItemID:    m.ItemID,
		OldPrice:  m.OldPrice,
		NewPrice:  m.NewPrice,
		ChangedAt: m.ChangedAt,
	}
}

func toPriceHistoryModel(e *PriceHistoryEntity) *model.PriceHistory {
	if e == nil {
		return nil
	}
	return &model.PriceHistory{
		ID:        e.ID,
		ItemID:    e.ItemID,
		OldPrice:  e.OldPrice,
		NewPrice:  e.NewPrice,
		ChangedAt: e.ChangedAt,
	}
}

func toPriceHistoryModels(entities []*PriceHistoryEntity) []*model.PriceHistory {
	if entities == nil {
		return nil
	}
	models := make([]*model.PriceHistory, len(entities))
	for i, e := range entities {
		models[i] = toPriceHistoryModel(e)
	}
	return models
}
