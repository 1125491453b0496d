package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

func (Item) TableName() string { return "items" }

// ItemCreateRequest is the input for creating a catalog item.
type ItemCreateRequest struct {
	Name     string
	Price    decimal.Decimal
	IsActive *bool
}

func (p ItemCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if p.Price.IsNegative() {
		return NewValidationError("price", "price cannot be negative")
	}
	return nil
}

// ItemUpdateRequest carries the mutable fields of an item. A price
// change is what triggers the audit trail.
type ItemUpdateRequest struct {
	Name     string
	Price    decimal.Decimal
	IsActive *bool
}

func (p ItemUpdateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if p.Price.IsNegative() {
		return NewValidationError("price", "price cannot be negative")
	}
	return nil
}

// PriceHistory is an append-only audit record of an item price change.
// Rows are never updated or deleted.
type PriceHistory struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
}
