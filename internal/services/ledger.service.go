package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/repository"
	"github.com/dukabook/duka-ledger/pkg/prom"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error)
	Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

type ItemReader interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
}

type CustomerReader interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type LedgerService struct {
	transactionRepo TransactionRepository
	itemRepo        ItemReader
	customerRepo    CustomerReader
}

func NewLedgerService(transactionRepo TransactionRepository, itemRepo ItemReader, customerRepo CustomerReader) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		customerRepo:    customerRepo,
	}
}

// Create records a ledger event. Payments store their amount directly;
// debts resolve each requested item and snapshot its current price into
// the line item, so later catalog changes never rewrite old debts.
func (s *LedgerService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetByID(ctx, p.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	date := time.Now()
	if p.Date != nil {
		date = *p.Date
	}

	txn := &model.Transaction{
		CustomerID: p.CustomerID,
		Type:       p.Type,
		Date:       date,
	}

	if p.Type == model.TransactionTypePayment {
		amount := p.Amount.Round(2)
		txn.Amount = &amount
	} else {
		for _, li := range p.Items {
			item, err := s.itemRepo.GetByID(ctx, li.ItemID)
			if err != nil {
				if errors.Is(err, repository.ErrItemNotFound) {
					return nil, ErrItemNotFound
				}
				return nil, fmt.Errorf("resolve item %d: %w", li.ItemID, err)
			}
			txn.Items = append(txn.Items, &model.TransactionItem{
				ItemID:    item.ID,
				Quantity:  li.Quantity,
				UnitPrice: item.Price.Round(2),
			})
		}
	}

	var created *model.Transaction
	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.transactionRepo.Create(ctx, txn)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncCounterVec(prom.SystemLedger, prom.MetricTransactionsCreated, string(created.Type))
	return created, nil
}

func (s *LedgerService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

func (s *LedgerService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	return s.transactionRepo.List(ctx, f)
}

// ListByCustomer is the required-filter query: the handler rejects a
// missing customer_id before this is ever called.
func (s *LedgerService) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	return s.transactionRepo.ListByCustomer(ctx, customerID)
}

// Update re-runs the type/amount rules against the stored line items
// before persisting.
func (s *LedgerService) Update(ctx context.Context, id int64, p model.TransactionUpdateRequest) (*model.Transaction, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.ValidateFor(existing); err != nil {
		return nil, err
	}

	existing.Type = p.Type
	if p.Date != nil {
		existing.Date = *p.Date
	}
	if p.Type == model.TransactionTypePayment {
		amount := p.Amount.Round(2)
		existing.Amount = &amount
	} else {
		existing.Amount = nil
	}

	updated, err := s.transactionRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.transactionRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	return nil
}
