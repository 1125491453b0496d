package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukabook/duka-ledger/internal/model"
)

type TransactionEntity struct {
	ID         int64                    `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64                    `db:"customer_id" gorm:"column:customer_id;not null;index"`
	Customer   *CustomerEntity          `                 gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Type       string                   `db:"type"        gorm:"column:type;not null"` // "debt" | "payment"
	Date       time.Time                `db:"date"        gorm:"column:date;not null"`
	Amount     decimal.NullDecimal      `db:"amount"      gorm:"column:amount;type:decimal(10,2)"` // payments only
	Items      []*TransactionItemEntity `                 gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TransactionEntity) TableName() string { return "transactions" }

type TransactionItemEntity struct {
	ID            int64           `db:"id"                  gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID int64           `db:"transaction_id"      gorm:"column:transaction_id;not null;index"`
	ItemID        int64           `db:"item_id"             gorm:"column:item_id;not null;index"`
	Item          *ItemEntity     `                         gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
	Quantity      int64           `db:"quantity"            gorm:"column:quantity;not null;default:1"`
	UnitPrice     decimal.Decimal `db:"unit_price"          gorm:"column:unit_price;type:decimal(10,2);not null"` // snapshot, never updated
}

func (TransactionItemEntity) TableName() string { return "transaction_items" }

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	e := &TransactionEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Type:       string(m.Type),
		Date:       m.Date,
		Amount:     toNullDecimal(m.Amount),
	}
	for _, li := range m.Items {
		e.Items = append(e.Items, toTransactionItemEntity(li))
	}
	return e
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	m := &model.Transaction{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Customer:   toCustomerModel(e.Customer),
		Type:       model.TransactionType(e.Type),
		Date:       e.Date,
		Amount:     fromNullDecimal(e.Amount),
	}
	for _, li := range e.Items {
		m.Items = append(m.Items, toTransactionItemModel(li))
	}
	return m
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}

func toTransactionItemEntity(m *model.TransactionItem) *TransactionItemEntity {
	if m == nil {
		return nil
	}
	return &TransactionItemEntity{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ItemID:        m.ItemID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
	}
}

func toTransactionItemModel(e *TransactionItemEntity) *model.TransactionItem {
	if e == nil {
		return nil
	}
	return &model.TransactionItem{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		ItemID:        e.ItemID,
		Item:          toItemModel(e.Item),
		Quantity:      e.Quantity,
		UnitPrice:     e.UnitPrice,
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
