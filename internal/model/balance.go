package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionTotal derives the value of a ledger event: payments return
// their amount directly, debts sum their line items.
func TransactionTotal(t *Transaction) decimal.Decimal {
	if t.Type == TransactionTypePayment {
		if t.Amount == nil {
			return decimal.Zero
		}
		return *t.Amount
	}
	total := decimal.Zero
	for _, li := range t.Items {
		total = total.Add(li.TotalPrice())
	}
	return total
}

// CustomerTotals is the derived financial position of a customer.
type CustomerTotals struct {
	TotalDebt     decimal.Decimal
	TotalPayments decimal.Decimal
	Balance       decimal.Decimal
}

// ComputeTotals folds a materialized transaction list into debt,
// payment and balance totals. This is the only place the aggregation
// lives; every read path goes through it.
func ComputeTotals(transactions []*Transaction) CustomerTotals {
	debt := decimal.Zero
	payments := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case TransactionTypeDebt:
			debt = debt.Add(TransactionTotal(t))
		case TransactionTypePayment:
			payments = payments.Add(TransactionTotal(t))
		}
	}
	return CustomerTotals{
		TotalDebt:     debt,
		TotalPayments: payments,
		Balance:       debt.Sub(payments),
	}
}

// LastTransactionDate returns the date of the most recent transaction,
// or nil when the customer has none.
func LastTransactionDate(transactions []*Transaction) *time.Time {
	var last *time.Time
	for _, t := range transactions {
		if last == nil || t.Date.After(*last) {
			d := t.Date
			last = &d
		}
	}
	return last
}
