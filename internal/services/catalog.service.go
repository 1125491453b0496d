package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/repository"
	"github.com/dukabook/duka-ledger/pkg/logger"
	"github.com/dukabook/duka-ledger/pkg/prom"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) (*model.Item, error)
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Item, error)
	Update(ctx context.Context, item *model.Item) (*model.Item, error)
	Deactivate(ctx context.Context, id int64) error
}

type PriceHistoryRepository interface {
	Create(ctx context.Context, ph *model.PriceHistory) (*model.PriceHistory, error)
	ListByItem(ctx context.Context, itemID int64) ([]*model.PriceHistory, error)
}

type CatalogService struct {
	itemRepo    ItemRepository
	historyRepo PriceHistoryRepository
}

func NewCatalogService(itemRepo ItemRepository, historyRepo PriceHistoryRepository) *CatalogService {
	return &CatalogService{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
	}
}

func (s *CatalogService) Create(ctx context.Context, p model.ItemCreateRequest) (*model.Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}

	item := &model.Item{
		Name:     strings.TrimSpace(p.Name),
		Price:    p.Price.Round(2),
		IsActive: active,
	}

	created, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateItemName) {
			return nil, model.NewValidationError("name", "an item with this name already exists")
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return created, nil
}

// Update applies the new fields and, when the price actually changed,
// appends a PriceHistory row. A failed audit write is logged and does
// not fail the update.
func (s *CatalogService) Update(ctx context.Context, id int64, p model.ItemUpdateRequest) (*model.Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	oldPrice := existing.Price
	existing.Name = strings.TrimSpace(p.Name)
	existing.Price = p.Price.Round(2)
	if p.IsActive != nil {
		existing.IsActive = *p.IsActive
	}

	updated, err := s.itemRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateItemName) {
			return nil, model.NewValidationError("name", "an item with this name already exists")
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	if !oldPrice.Equal(updated.Price) {
		_, err := s.historyRepo.Create(ctx, &model.PriceHistory{
			ItemID:   updated.ID,
			OldPrice: oldPrice,
			NewPrice: updated.Price,
		})
		if err != nil {
			// audit failure is deliberately non-fatal, the price change stands
			logger.Warn("failed to record price history",
				"item_id", updated.ID,
				"old_price", oldPrice.String(),
				"new_price", updated.Price.String(),
				"error", err,
			)
			prom.IncCounter(prom.SystemCatalog, prom.MetricPriceHistoryWriteFailure)
		} else {
			prom.IncCounter(prom.SystemCatalog, prom.MetricPriceChanges)
		}
	}

	return updated, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*model.Item, error) {
	return s.itemRepo.List(ctx, true)
}

// Deactivate is what the DELETE verb maps to. Items are never hard
// deleted while transaction history references them.
func (s *CatalogService) Deactivate(ctx context.Context, id int64) error {
	err := s.itemRepo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	return nil
}

func (s *CatalogService) PriceHistory(ctx context.Context, itemID int64) ([]*model.PriceHistory, error) {
	if _, err := s.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByItem(ctx, itemID)
}
