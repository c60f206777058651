package models

import "github.com/shopspring/decimal"

// Ingredient is one line of a recipe: how much of an inventory item one unit consumes.
type Ingredient struct {
	InventoryItemID string          `json:"inventoryItemId"`
	QtyPerUnit      decimal.Decimal `json:"qtyPerUnit"`
}

// Recipe maps a product to its per-unit ingredient consumption.
type Recipe struct {
	ProductID   string       `json:"productId"`
	Ingredients []Ingredient `json:"ingredients"`
}
