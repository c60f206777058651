package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProduct is the best seller by units.
type TopProduct struct {
	Name  string `json:"name"`
	Units int64  `json:"units"`
}

// LowStockLine is a low-stock item as shown in a summary.
type LowStockLine struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
	Unit string          `json:"unit"`
}

// DailySummary is the dashboard view of a business day, also archived to MongoDB.
type DailySummary struct {
	Date        time.Time       `json:"date"`
	SalesTotal  decimal.Decimal `json:"salesTotal"`
	SalesCount  int             `json:"salesCount"`
	LowStock    []LowStockLine  `json:"lowStock"`
	TopProduct  *TopProduct     `json:"topProduct,omitempty"`
	Predictions []Prediction    `json:"predictions"`
	CreatedAt   time.Time       `json:"createdAt"`
}
