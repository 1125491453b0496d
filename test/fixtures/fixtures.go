package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
)

func Price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func NewTestItem(name, price string) *model.Item {
	return &model.Item{
		Name:     name,
		Price:    Price(price),
		IsActive: true,
	}
}

func NewTestCustomer(name string, phone *string) *model.Customer {
	return &model.Customer{
		Name:  name,
		Phone: phone,
	}
}

func ItemCreateRequest(name, price string) model.ItemCreateRequest {
	return model.ItemCreateRequest{
		Name:  name,
		Price: Price(price),
	}
}

func ItemUpdateRequest(name, price string) model.ItemUpdateRequest {
	return model.ItemUpdateRequest{
		Name:  name,
		Price: Price(price),
	}
}

func CustomerCreateRequest(name string) model.CustomerCreateRequest {
	return model.CustomerCreateRequest{Name: name}
}

func DebtRequest(customerID int64, items ...model.LineItemRequest) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		CustomerID: customerID,
		Type:       model.TransactionTypeDebt,
		Items:      items,
	}
}

func PaymentRequest(customerID int64, amount string) model.TransactionCreateRequest {
	a := Price(amount)
	return model.TransactionCreateRequest{
		CustomerID: customerID,
		Type:       model.TransactionTypePayment,
		Amount:     &a,
	}
}

func DatedPaymentRequest(customerID int64, amount string, date time.Time) model.TransactionCreateRequest {
	p := PaymentRequest(customerID, amount)
	p.Date = &date
	return p
}

func Line(itemID, quantity int64) model.LineItemRequest {
	return model.LineItemRequest{ItemID: itemID, Quantity: quantity}
}
