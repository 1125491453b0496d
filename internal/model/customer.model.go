package model

import (
	"strings"
	"time"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string { return "customers" }

type CustomerCreateRequest struct {
	Name  string
	Phone *string
}

func (p CustomerCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	return nil
}

type CustomerUpdateRequest struct {
	Name  string
	Phone *string
}

func (p CustomerUpdateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	return nil
}

// CustomerWithTransactions pairs a customer with its fully materialized
// transaction list so totals can be derived without re-querying.
type CustomerWithTransactions struct {
	Customer     *Customer
	Transactions []*Transaction
}
