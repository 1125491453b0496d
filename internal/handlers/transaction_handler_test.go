package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/services"
	xhttp "github.com/dukabook/duka-ledger/pkg/http"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) Update(ctx context.Context, id int64, p model.TransactionUpdateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("payment", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		amount := decimal.RequireFromString("50.00")
		bodyBytes, _ := json.Marshal(createTransactionRequest{
			Customer: 1,
			Type:     model.TransactionTypePayment,
			Amount:   &amount,
		})

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.TransactionCreateRequest) bool {
			return p.CustomerID == 1 && p.Type == model.TransactionTypePayment &&
				p.Amount != nil && p.Amount.Equal(amount)
		})).Return(&model.Transaction{
			ID:         10,
			CustomerID: 1,
			Type:       model.TransactionTypePayment,
			Date:       time.Now(),
			Amount:     &amount,
		}, nil)

		ctx := setupTestContext("POST", "/transactions", bodyBytes)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response transactionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, int64(10), response.ID)
		assert.True(t, response.TotalAmount.Equal(amount))

		svc.AssertExpectations(t)
	})

	t.Run("debt defaults omitted quantity to one", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes := []byte(`{"customer":1,"type":"debt","items":[{"item_id":2}]}`)

		svc.On("Create", mock.Anything, mock.MatchedBy(func(p model.TransactionCreateRequest) bool {
			return len(p.Items) == 1 && p.Items[0].ItemID == 2 && p.Items[0].Quantity == 1
		})).Return(&model.Transaction{
			ID:         11,
			CustomerID: 1,
			Type:       model.TransactionTypeDebt,
			Date:       time.Now(),
			Items: []*model.TransactionItem{
				{ID: 1, ItemID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("55.00")},
			},
		}, nil)

		ctx := setupTestContext("POST", "/transactions", bodyBytes)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response transactionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		require.Len(t, response.Items, 1)
		assert.True(t, response.Items[0].UnitPrice.Equal(decimal.RequireFromString("55.00")))
		assert.True(t, response.TotalAmount.Equal(decimal.RequireFromString("55.00")))

		svc.AssertExpectations(t)
	})

	t.Run("validation error carries the field", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes := []byte(`{"customer":1,"type":"payment"}`)

		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError("amount", "payment requires a positive amount"))

		ctx := setupTestContext("POST", "/transactions", bodyBytes)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "amount", response["field"])
		assert.Equal(t, "payment requires a positive amount", response["error"])
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		amount := decimal.RequireFromString("5.00")
		bodyBytes, _ := json.Marshal(createTransactionRequest{
			Customer: 99,
			Type:     model.TransactionTypePayment,
			Amount:   &amount,
		})

		svc.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrCustomerNotFound)

		ctx := setupTestContext("POST", "/transactions", bodyBytes)
		handler.CreateTransaction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("POST", "/transactions", []byte("not json"))
		handler.CreateTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Contains(t, response["error"], "invalid JSON")
	})
}

func TestTransactionHandler_ListByCustomer(t *testing.T) {
	t.Run("missing customer_id is rejected", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/transactions/by-customer", nil)
		handler.ListByCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "customer_id is required", response["error"])
		svc.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric customer_id is rejected", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/transactions/by-customer?customer_id=abc", nil)
		handler.ListByCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("returns the customer's ledger", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		amount := decimal.RequireFromString("50.00")
		svc.On("ListByCustomer", mock.Anything, int64(1)).Return([]*model.Transaction{
			{ID: 1, CustomerID: 1, Type: model.TransactionTypePayment, Date: time.Now(), Amount: &amount},
		}, nil)

		ctx := setupTestContext("GET", "/transactions/by-customer?customer_id=1", nil)
		handler.ListByCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response []*transactionResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, int64(1), response[0].Customer)

		svc.AssertExpectations(t)
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.TransactionFilter) bool {
			return f.CustomerID != nil && *f.CustomerID == 1 &&
				f.Type != nil && *f.Type == model.TransactionTypeDebt &&
				f.Limit == 5 && f.Offset == 10 && f.Desc
		})).Return([]*model.Transaction{}, int64(0), nil)

		ctx := setupTestContext("GET", "/transactions?customer_id=1&type=debt&limit=5&offset=10&order=desc", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("non-numeric customer_id is rejected", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/transactions?customer_id=abc", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, "customer_id must be an integer", response["error"])
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric limit and offset are rejected", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		for _, uri := range []string{
			"/transactions?limit=ten",
			"/transactions?offset=first",
		} {
			ctx := setupTestContext("GET", uri, nil)
			handler.ListTransactions(ctx)
			assert.Equal(t, 400, ctx.Response.StatusCode())
		}
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("List", mock.Anything, mock.Anything).
			Return(nil, int64(0), errors.New("database error"))

		ctx := setupTestContext("GET", "/transactions", nil)
		handler.ListTransactions(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("Get", mock.Anything, int64(99)).Return(nil, services.ErrTransactionNotFound)

		ctx := setupTestContext("GET", "/transactions/99", nil)
		ctx.SetUserValue("id", "99")
		handler.GetTransaction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/transactions/abc", nil)
		ctx.SetUserValue("id", "abc")
		handler.GetTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	svc := new(MockLedgerService)
	handler := NewTransactionHandler(svc)

	svc.On("Delete", mock.Anything, int64(5)).Return(nil)

	ctx := setupTestContext("DELETE", "/transactions/5", nil)
	ctx.SetUserValue("id", "5")
	handler.DeleteTransaction(ctx)

	assert.Equal(t, 204, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}
