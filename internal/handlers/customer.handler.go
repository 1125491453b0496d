package handlers

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
	xhttp "github.com/dukabook/duka-ledger/pkg/http"
)

type CustomerService interface {
	Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.CustomerWithTransactions, error)
	List(ctx context.Context) ([]*model.CustomerWithTransactions, error)
	Update(ctx context.Context, id int64, p model.CustomerUpdateRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	Transactions(ctx context.Context, customerID int64) ([]*model.Transaction, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.GET("/customers", h.ListCustomers)
	e.POST("/customers", h.CreateCustomer)
	e.GET("/customers/{id}", h.GetCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.DELETE("/customers/{id}", h.DeleteCustomer)
	e.GET("/customers/{id}/transactions", h.ListCustomerTransactions)
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: svc,
	}
}

type customerRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
}

// customerResponse is the shaped summary: totals are always derived by
// model.ComputeTotals over the materialized transaction list, in both
// the single and the list view.
type customerResponse struct {
	ID                  int64                  `json:"id"`
	Name                string                 `json:"name"`
	Phone               *string                `json:"phone"`
	CreatedAt           time.Time              `json:"created_at"`
	LastTransactionDate *time.Time             `json:"last_transaction_date"`
	TotalDebt           decimal.Decimal        `json:"total_debt"`
	TotalPayments       decimal.Decimal        `json:"total_payments"`
	Balance             decimal.Decimal        `json:"balance"`
	Transactions        []*transactionResponse `json:"transactions"`
}

func newCustomerResponse(cw *model.CustomerWithTransactions) *customerResponse {
	totals := model.ComputeTotals(cw.Transactions)
	return &customerResponse{
		ID:                  cw.Customer.ID,
		Name:                cw.Customer.Name,
		Phone:               cw.Customer.Phone,
		CreatedAt:           cw.Customer.CreatedAt,
		LastTransactionDate: model.LastTransactionDate(cw.Transactions),
		TotalDebt:           totals.TotalDebt,
		TotalPayments:       totals.TotalPayments,
		Balance:             totals.Balance,
		Transactions:        newTransactionResponses(cw.Transactions),
	}
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req customerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	customer, err := h.svc.Create(ctx, model.CustomerCreateRequest{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, customer)
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	cw, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, newCustomerResponse(cw))
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	cws, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	out := make([]*customerResponse, len(cws))
	for i, cw := range cws {
		out[i] = newCustomerResponse(cw)
	}
	writeJSON(ctx, 200, out)
}

func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	var req customerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	customer, err := h.svc.Update(ctx, id, model.CustomerUpdateRequest{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customer)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *CustomerHandler) ListCustomerTransactions(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	txns, err := h.svc.Transactions(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, newTransactionResponses(txns))
}
