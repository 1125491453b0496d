package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/pkg/pg"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// Create inserts the transaction together with its line items. Callers
// wrap it in WithinTransaction so both land or neither does.
func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item").
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

// List returns transactions with customer and line items eagerly
// loaded, so no read path needs to lazily re-query per record.
func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TransactionEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", string(*f.Type))
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*TransactionEntity
	err := q.
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item").
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&entities).
		Error
	if err != nil {
		return nil, 0, err
	}

	return toTransactionModels(entities), total, nil
}

// ListByCustomer returns the full dated ledger of one customer, oldest
// first, with line items loaded.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Preload("Items").
		Preload("Items.Item").
		Where("customer_id = ?", customerID).
		Order("date ASC, id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

// ListForCustomers loads the transactions of several customers in one
// query so list views can compute totals without a query per customer.
func (r *TransactionRepository) ListForCustomers(ctx context.Context, customerIDs []int64) ([]*model.Transaction, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	var entities []*TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Preload("Items").
		Preload("Items.Item").
		Where("customer_id IN ?", customerIDs).
		Order("date ASC, id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

// Update persists the mutable fields. Line items and their snapshotted
// unit prices are fixed at creation and never touched here.
func (r *TransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	result := r.Write(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"type":   entity.Type,
			"date":   entity.Date,
			"amount": entity.Amount,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTransactionNotFound
	}

	return r.GetByID(ctx, entity.ID)
}

// Delete removes the transaction and its line items. Callers wrap it in
// WithinTransaction.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	err := r.Write(ctx).WithContext(ctx).
		Where("transaction_id = ?", id).
		Delete(&TransactionItemEntity{}).
		Error
	if err != nil {
		return err
	}

	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&TransactionEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
