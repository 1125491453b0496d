package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/pkg/pg"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrDuplicateItemName = errors.New("item name already exists")
)

type ItemRepository struct {
	*pg.DB
}

func NewItemRepository(db *pg.DB) *ItemRepository {
	return &ItemRepository{
		db,
	}
}

func (r *ItemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	entity := toItemEntity(item)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItemName
		}
		return nil, err
	}

	return toItemModel(entity), nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var entity ItemEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return toItemModel(&entity), nil
}

// List returns catalog items ordered by name. With activeOnly set,
// deactivated items are filtered out (the public listing).
func (r *ItemRepository) List(ctx context.Context, activeOnly bool) ([]*model.Item, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&ItemEntity{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var entities []*ItemEntity
	if err := q.Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toItemModels(entities), nil
}

func (r *ItemRepository) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	entity := toItemEntity(item)

	result := r.Write(ctx).WithContext(ctx).
		Model(&ItemEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":      entity.Name,
			"price":     entity.Price,
			"is_active": entity.IsActive,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItemName
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	return toItemModel(entity), nil
}

// Deactivate is the logical delete: referenced items are never removed.
func (r *ItemRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ItemEntity{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
