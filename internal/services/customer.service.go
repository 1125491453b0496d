package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/repository"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error)
	ListForCustomers(ctx context.Context, customerIDs []int64) ([]*model.Transaction, error)
}

type CustomerService struct {
	customerRepo    CustomerRepository
	transactionRepo TransactionLister
}

func NewCustomerService(customerRepo CustomerRepository, transactionRepo TransactionLister) *CustomerService {
	return &CustomerService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *CustomerService) Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		Name:  strings.TrimSpace(p.Name),
		Phone: p.Phone,
	}
	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

// Get loads the customer together with its materialized transaction
// list; totals are derived from that list, never re-queried.
func (s *CustomerService) Get(ctx context.Context, id int64) (*model.CustomerWithTransactions, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return &model.CustomerWithTransactions{
		Customer:     customer,
		Transactions: transactions,
	}, nil
}

// List batch-loads all transactions in one query and groups them per
// customer, so the list view computes totals over the same data shape
// as the single view.
func (s *CustomerService) List(ctx context.Context) ([]*model.CustomerWithTransactions, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}

	transactions, err := s.transactionRepo.ListForCustomers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	byCustomer := make(map[int64][]*model.Transaction, len(customers))
	for _, t := range transactions {
		byCustomer[t.CustomerID] = append(byCustomer[t.CustomerID], t)
	}

	result := make([]*model.CustomerWithTransactions, len(customers))
	for i, c := range customers {
		result[i] = &model.CustomerWithTransactions{
			Customer:     c,
			Transactions: byCustomer[c.ID],
		}
	}
	return result, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, p model.CustomerUpdateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	existing.Name = strings.TrimSpace(p.Name)
	existing.Phone = p.Phone

	updated, err := s.customerRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete cascades through the customer's transactions and their line
// items in one storage transaction.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.customerRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// Transactions serves GET /customers/{id}/transactions; unlike the
// ledger filter query, a missing customer here is a 404.
func (s *CustomerService) Transactions(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.transactionRepo.ListByCustomer(ctx, customerID)
}
