package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode labels how a sale was paid. It is not processed.
type PaymentMode string

const (
	PaymentCash PaymentMode = "Cash"
	PaymentUPI  PaymentMode = "UPI"
	PaymentCard PaymentMode = "Card"
)

// Valid reports whether the mode is one of the supported labels.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard:
		return true
	default:
		return false
	}
}

// SaleLine is a line of a recorded sale. Name and price are snapshots taken at commit time.
type SaleLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Qty         int64           `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Subtotal is qty times unit price.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Qty))
}

// Customer is the optional buyer reference attached to a sale.
type Customer struct {
	Phone string `json:"phone,omitempty"`
}

// Sale is an append-only record of a completed checkout.
type Sale struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	Items       []SaleLine      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	PaymentMode PaymentMode     `json:"paymentMode"`
	Customer    *Customer       `json:"customer,omitempty"`
}

// LineRequest is a cart line submitted for checkout.
type LineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int64  `json:"qty" binding:"required"`
}

// SaleRequest is the checkout payload. Prices and totals are never taken from it.
type SaleRequest struct {
	Items         []LineRequest `json:"items" binding:"required"`
	PaymentMode   PaymentMode   `json:"paymentMode"`
	CustomerPhone string        `json:"customerPhone"`
}

// SaleRecorded is emitted once a sale transaction has committed.
type SaleRecorded struct {
	EventID    string    `json:"eventId"`
	OccurredAt time.Time `json:"occurredAt"`
	Sale       Sale      `json:"sale"`
}
