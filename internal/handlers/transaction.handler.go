package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
	"github.com/dukabook/duka-ledger/internal/services"
	xhttp "github.com/dukabook/duka-ledger/pkg/http"
)

type LedgerService interface {
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	Get(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*model.Transaction, error)
	Update(ctx context.Context, id int64, p model.TransactionUpdateRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

type TransactionHandler struct {
	svc LedgerService
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.GET("/transactions", h.ListTransactions)
	e.POST("/transactions", h.CreateTransaction)
	e.GET("/transactions/by-customer", h.ListByCustomer)
	e.GET("/transactions/{id}", h.GetTransaction)
	e.PUT("/transactions/{id}", h.UpdateTransaction)
	e.DELETE("/transactions/{id}", h.DeleteTransaction)
}

func NewTransactionHandler(svc LedgerService) *TransactionHandler {
	return &TransactionHandler{
		svc: svc,
	}
}

type lineItemRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity int64 `json:"quantity"`
}

type createTransactionRequest struct {
	Customer int64                 `json:"customer"`
	Type     model.TransactionType `json:"type"`
	Date     *time.Time            `json:"date"`
	Amount   *decimal.Decimal      `json:"amount"`
	Items    []lineItemRequest     `json:"items"`
}

type updateTransactionRequest struct {
	Type   model.TransactionType `json:"type"`
	Date   *time.Time            `json:"date"`
	Amount *decimal.Decimal      `json:"amount"`
}

type transactionListResponse struct {
	Items []*transactionResponse `json:"items"`
	Total int64                  `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	var req createTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.TransactionCreateRequest{
		CustomerID: req.Customer,
		Type:       req.Type,
		Date:       req.Date,
		Amount:     req.Amount,
	}
	for _, li := range req.Items {
		qty := li.Quantity
		if qty == 0 {
			qty = 1
		}
		p.Items = append(p.Items, model.LineItemRequest{ItemID: li.ItemID, Quantity: qty})
	}

	txn, err := h.svc.Create(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, newTransactionResponse(txn))
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	txn, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, newTransactionResponse(txn))
}

// ListTransactions rejects malformed filter values outright; a bad
// parameter is a client error, never an implicit "no filter".
func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter

	if v := query(ctx, "customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(ctx, 400, "customer_id must be an integer")
			return
		}
		f.CustomerID = &id
	}
	if v := query(ctx, "type"); v != "" {
		t := model.TransactionType(v)
		f.Type = &t
	}
	if v := query(ctx, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(ctx, 400, "limit must be an integer")
			return
		}
		f.Limit = n
	}
	if v := query(ctx, "offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(ctx, 400, "offset must be an integer")
			return
		}
		f.Offset = n
	}
	if v := query(ctx, "order"); v == "desc" {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, transactionListResponse{Items: newTransactionResponses(items), Total: total})
}

// ListByCustomer requires the customer_id parameter; leaving it out is
// a client error, never "all transactions".
func (h *TransactionHandler) ListByCustomer(ctx *xhttp.RequestCtx) {
	v := query(ctx, "customer_id")
	if v == "" {
		writeError(ctx, 400, "customer_id is required")
		return
	}
	customerID, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeError(ctx, 400, "customer_id must be an integer")
		return
	}

	items, err := h.svc.ListByCustomer(ctx, customerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, newTransactionResponses(items))
}

func (h *TransactionHandler) UpdateTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	var req updateTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	txn, err := h.svc.Update(ctx, id, model.TransactionUpdateRequest{
		Type:   req.Type,
		Date:   req.Date,
		Amount: req.Amount,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, newTransactionResponse(txn))
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
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

/* ----------------------------- Response shaping ------------------------------ */

type transactionItemResponse struct {
	ID         int64            `json:"id"`
	Item       int64            `json:"item"`
	ItemName   string           `json:"item_name,omitempty"`
	ItemPrice  *decimal.Decimal `json:"item_price,omitempty"` // current catalog price, not the snapshot
	Quantity   int64            `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	TotalPrice decimal.Decimal  `json:"total_price"`
}

type transactionResponse struct {
	ID           int64                      `json:"id"`
	Customer     int64                      `json:"customer"`
	CustomerName string                     `json:"customer_name,omitempty"`
	Type         model.TransactionType      `json:"type"`
	Date         time.Time                  `json:"date"`
	Amount       *decimal.Decimal           `json:"amount"`
	TotalAmount  decimal.Decimal            `json:"total_amount"`
	Items        []*transactionItemResponse `json:"items"`
}

func newTransactionResponse(t *model.Transaction) *transactionResponse {
	resp := &transactionResponse{
		ID:          t.ID,
		Customer:    t.CustomerID,
		Type:        t.Type,
		Date:        t.Date,
		Amount:      t.Amount,
		TotalAmount: model.TransactionTotal(t),
		Items:       []*transactionItemResponse{},
	}
	if t.Customer != nil {
		resp.CustomerName = t.Customer.Name
	}
	for _, li := range t.Items {
		ir := &transactionItemResponse{
			ID:         li.ID,
			Item:       li.ItemID,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice,
			TotalPrice: li.TotalPrice(),
		}
		if li.Item != nil {
			ir.ItemName = li.Item.Name
			price := li.Item.Price
			ir.ItemPrice = &price
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}

func newTransactionResponses(txns []*model.Transaction) []*transactionResponse {
	out := make([]*transactionResponse, len(txns))
	for i, t := range txns {
		out[i] = newTransactionResponse(t)
	}
	return out
}

/* -------------------------------- Helpers ------------------------------------ */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP: field-keyed
// validation failures are 400s carrying the field, unknown references
// are 404s, anything else is a server error.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(ctx, 400, map[string]string{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		writeError(ctx, 404, err.Error())
	default:
		writeError(ctx, 500, err.Error())
	}
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	v, ok := ctx.UserValue(name).(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(v, 10, 64)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
