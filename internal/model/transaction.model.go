package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger event.
type TransactionType string

const (
	TransactionTypeDebt    TransactionType = "debt"
	TransactionTypePayment TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDebt || t == TransactionTypePayment
}

type Transaction struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Customer   *Customer          `json:"-"`
	Type       TransactionType    `json:"type"`
	Date       time.Time          `json:"date"`
	Amount     *decimal.Decimal   `json:"amount"` // payments only
	Items      []*TransactionItem `json:"items"`
}

func (Transaction) TableName() string { return "transactions" }

type TransactionItem struct {
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transaction_id"`
	ItemID        int64           `json:"item_id"`
	Item          *Item           `json:"-"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"` // snapshot of Item.Price at creation
}

func (TransactionItem) TableName() string { return "transaction_items" }

// TotalPrice is quantity times the snapshotted unit price.
func (i *TransactionItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

type LineItemRequest struct {
	ItemID   int64
	Quantity int64
}

// TransactionCreateRequest is the input for recording a ledger event.
// Payments carry an amount and nothing else; debts carry line items and
// derive their value from them.
type TransactionCreateRequest struct {
	CustomerID int64
	Type       TransactionType
	Date       *time.Time
	Amount     *decimal.Decimal
	Items      []LineItemRequest
}

func (p TransactionCreateRequest) Validate() error {
	if p.CustomerID == 0 {
		return NewValidationError("customer", "customer is required")
	}
	if !p.Type.Valid() {
		return NewValidationError("type", "type must be debt or payment")
	}
	if p.Type == TransactionTypePayment {
		if p.Amount == nil || !p.Amount.IsPositive() {
			return NewValidationError("amount", "payments must have a positive amount")
		}
		if len(p.Items) > 0 {
			return NewValidationError("items", "payment transactions cannot have line items")
		}
		return nil
	}
	if p.Amount != nil && !p.Amount.IsZero() {
		return NewValidationError("amount", "debt transactions derive their amount from line items")
	}
	if len(p.Items) == 0 {
		return NewValidationError("items", "debt transactions require at least one line item")
	}
	for _, li := range p.Items {
		if li.ItemID == 0 {
			return NewValidationError("items", "item is required on every line item")
		}
		if li.Quantity <= 0 {
			return NewValidationError("items", "quantity must be a positive integer")
		}
	}
	return nil
}

// TransactionUpdateRequest carries the mutable fields of a transaction.
// Line items are fixed at creation time.
type TransactionUpdateRequest struct {
	Type   TransactionType
	Date   *time.Time
	Amount *decimal.Decimal
}

// ValidateFor checks the update against the transaction's existing line
// items: a transaction holding items can never become a payment, and a
// transaction without them can never become a debt.
func (p TransactionUpdateRequest) ValidateFor(existing *Transaction) error {
	if !p.Type.Valid() {
		return NewValidationError("type", "type must be debt or payment")
	}
	if p.Type == TransactionTypePayment {
		if p.Amount == nil || !p.Amount.IsPositive() {
			return NewValidationError("amount", "payments must have a positive amount")
		}
		if len(existing.Items) > 0 {
			return NewValidationError("items", "payment transactions cannot have line items")
		}
		return nil
	}
	if p.Amount != nil && !p.Amount.IsZero() {
		return NewValidationError("amount", "debt transactions derive their amount from line items")
	}
	if len(existing.Items) == 0 {
		return NewValidationError("items", "debt transactions require at least one line item")
	}
	return nil
}

// TransactionFilter controls List queries.
type TransactionFilter struct {
	CustomerID *int64
	Type       *TransactionType
	Limit      int
	Offset     int
	Desc       bool // order by date
}
