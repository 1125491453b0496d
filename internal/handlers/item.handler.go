package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
	xhttp "github.com/dukabook/duka-ledger/pkg/http"
)

type CatalogService interface {
	Create(ctx context.Context, p model.ItemCreateRequest) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context) ([]*model.Item, error)
	Update(ctx context.Context, id int64, p model.ItemUpdateRequest) (*model.Item, error)
	Deactivate(ctx context.Context, id int64) error
	PriceHistory(ctx context.Context, itemID int64) ([]*model.PriceHistory, error)
}

type ItemHandler struct {
	svc CatalogService
}

func RegisterItemRoutes(e *router.Group, h *ItemHandler) {
	e.GET("/items", h.ListItems)
	e.POST("/items", h.CreateItem)
	e.GET("/items/{id}", h.GetItem)
	e.PUT("/items/{id}", h.UpdateItem)
	e.DELETE("/items/{id}", h.DeleteItem)
	e.GET("/items/{id}/price-history", h.ListPriceHistory)
}

func NewItemHandler(svc CatalogService) *ItemHandler {
	return &ItemHandler{
		svc: svc,
	}
}

type itemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"is_active"`
}

func (h *ItemHandler) CreateItem(ctx *xhttp.RequestCtx) {
	var req itemRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	item, err := h.svc.Create(ctx, model.ItemCreateRequest{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, item)
}

func (h *ItemHandler) GetItem(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	item, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, item)
}

// ListItems returns the active price list, ordered by name.
func (h *ItemHandler) ListItems(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *ItemHandler) UpdateItem(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	var req itemRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	item, err := h.svc.Update(ctx, id, model.ItemUpdateRequest{
		Name:     req.Name,
		Price:    req.Price,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, item)
}

// DeleteItem deactivates; catalog items referenced by old transactions
// are never hard deleted.
func (h *ItemHandler) DeleteItem(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	if err := h.svc.Deactivate(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *ItemHandler) ListPriceHistory(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}

	history, err := h.svc.PriceHistory(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, history)
}
