package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// InventoryItem is a raw ingredient tracked in stock.
type InventoryItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Qty          decimal.Decimal `json:"qty"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	CostPerUnit  decimal.Decimal `json:"costPerUnit"`
}

// IsLow reports whether the item sits at or below its reorder level.
func (i InventoryItem) IsLow() bool {
	return i.Qty.LessThanOrEqual(i.ReorderLevel)
}

// InventoryUpdate carries the editable inventory fields. Nil fields are left untouched.
type InventoryUpdate struct {
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	Qty          *decimal.Decimal `json:"qty"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
	CostPerUnit  *decimal.Decimal `json:"costPerUnit"`
}

// Availability is the number of units of a product that current stock supports.
// Unlimited is set for products that consume nothing; Units is meaningless then.
type Availability struct {
	Units     int64 `json:"units"`
	Unlimited bool  `json:"unlimited"`
}

// UnlimitedAvailability is the sentinel for products without a recipe.
func UnlimitedAvailability() Availability { return Availability{Unlimited: true} }

// Covers reports whether qty units can be served from this availability.
func (a Availability) Covers(qty int64) bool {
	return a.Unlimited || a.Units >= qty
}

func (a Availability) String() string {
	if a.Unlimited {
		return "unlimited"
	}
	return strconv.FormatInt(a.Units, 10)
}
