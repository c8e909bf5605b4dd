package domain

import "github.com/shopspring/decimal"

type StockItem struct {
	ID         int64           `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
	ExpiryDate string          `db:"expiry_date" json:"expiry_date"`
}
