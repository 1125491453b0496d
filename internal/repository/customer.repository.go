package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/pkg/pg"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(customer)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(customer)

	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":  entity.Name,
			"phone": entity.Phone,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}

	return toCustomerModel(entity), nil
}

// Delete removes the customer and cascades through its transactions and
// their line items. The deletes are explicit so behavior does not
// depend on engine-level foreign key enforcement; callers wrap this in
// WithinTransaction.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	txnIDs := r.Write(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Select("id").
		Where("customer_id = ?", id)

	err := r.Write(ctx).WithContext(ctx).
		Where("transaction_id IN (?)", txnIDs).
		Delete(&TransactionItemEntity{}).
		Error
	if err != nil {
		return err
	}

	err = r.Write(ctx).WithContext(ctx).
		Where("customer_id = ?", id).
		Delete(&TransactionEntity{}).
		Error
	if err != nil {
		return err
	}

	result := r.Write(ctx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&CustomerEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
