package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/services"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id int64) (*model.CustomerWithTransactions, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerWithTransactions), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context) ([]*model.CustomerWithTransactions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CustomerWithTransactions), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, id int64, p model.CustomerUpdateRequest) (*model.Customer, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerService) Transactions(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func aminaWithLedger() *model.CustomerWithTransactions {
	amount := decimal.RequireFromString("50.00")
	return &model.CustomerWithTransactions{
		Customer: &model.Customer{ID: 1, Name: "Amina", CreatedAt: time.Now()},
		Transactions: []*model.Transaction{
			{
				ID:         1,
				CustomerID: 1,
				Type:       model.TransactionTypeDebt,
				Date:       time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
				Items: []*model.TransactionItem{
					{ID: 1, ItemID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("55.00")},
				},
			},
			{
				ID:         2,
				CustomerID: 1,
				Type:       model.TransactionTypePayment,
				Date:       time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC),
				Amount:     &amount,
			},
		},
	}
}

func TestCustomerHandler_GetCustomer(t *testing.T) {
	t.Run("totals come from the transaction list", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, int64(1)).Return(aminaWithLedger(), nil)

		ctx := setupTestContext("GET", "/customers/1", nil)
		ctx.SetUserValue("id", "1")
		handler.GetCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response customerResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "Amina", response.Name)
		assert.True(t, response.TotalDebt.Equal(decimal.RequireFromString("110.00")))
		assert.True(t, response.TotalPayments.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, response.Balance.Equal(decimal.RequireFromString("60.00")))
		require.NotNil(t, response.LastTransactionDate)
		assert.Len(t, response.Transactions, 2)

		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, int64(99)).Return(nil, services.ErrCustomerNotFound)

		ctx := setupTestContext("GET", "/customers/99", nil)
		ctx.SetUserValue("id", "99")
		handler.GetCustomer(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestCustomerHandler_ListCustomers(t *testing.T) {
	svc := new(MockCustomerService)
	handler := NewCustomerHandler(svc)

	joseph := &model.CustomerWithTransactions{
		Customer: &model.Customer{ID: 2, Name: "Joseph", CreatedAt: time.Now()},
	}
	svc.On("List", mock.Anything).Return([]*model.CustomerWithTransactions{aminaWithLedger(), joseph}, nil)

	ctx := setupTestContext("GET", "/customers", nil)
	handler.ListCustomers(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var response []*customerResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	require.Len(t, response, 2)

	// same balance as the single view would report
	assert.True(t, response[0].Balance.Equal(decimal.RequireFromString("60.00")))

	// a customer with no history gets explicit zeros, not nulls
	assert.True(t, response[1].Balance.IsZero())
	assert.Nil(t, response[1].LastTransactionDate)
	assert.NotNil(t, response[1].Transactions)

	svc.AssertExpectations(t)
}

func TestCustomerHandler_CreateCustomer(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		phone := "+254700111222"
		bodyBytes, _ := json.Marshal(customerRequest{Name: "Amina", Phone: &phone})

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.CustomerCreateRequest) bool {
			return p.Name == "Amina" && p.Phone != nil && *p.Phone == phone
		})).Return(&model.Customer{ID: 1, Name: "Amina", Phone: &phone}, nil)

		ctx := setupTestContext("POST", "/customers", bodyBytes)
		handler.CreateCustomer(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("missing name", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes := []byte(`{"name":""}`)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError("name", "name is required"))

		ctx := setupTestContext("POST", "/customers", bodyBytes)
		handler.CreateCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "name", response["field"])
	})
}

func TestCustomerHandler_DeleteCustomer(t *testing.T) {
	svc := new(MockCustomerService)
	handler := NewCustomerHandler(svc)

	svc.On("Delete", mock.Anything, int64(1)).Return(nil)

	ctx := setupTestContext("DELETE", "/customers/1", nil)
	ctx.SetUserValue("id", "1")
	handler.DeleteCustomer(ctx)

	assert.Equal(t, 204, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestCustomerHandler_ListCustomerTransactions(t *testing.T) {
	t.Run("unknown customer is a 404", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Transactions", mock.Anything, int64(99)).Return(nil, services.ErrCustomerNotFound)

		ctx := setupTestContext("GET", "/customers/99/transactions", nil)
		ctx.SetUserValue("id", "99")
		handler.ListCustomerTransactions(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}
