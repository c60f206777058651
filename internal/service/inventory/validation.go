package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// validateRecipe checks a recipe against the current stock list before it is saved.
func validateRecipe(rec models.Recipe, stock map[string]models.InventoryItem) error {
	if strings.TrimSpace(rec.ProductID) == "" {
		return models.Validationf("recipe product id is required")
	}
	if len(rec.Ingredients) == 0 {
		return models.Validationf("recipe %s needs at least one ingredient", rec.ProductID)
	}

	seen := make(map[string]struct{}, len(rec.Ingredients))
	for i, ing := range rec.Ingredients {
		if ing.InventoryItemID == "" {
			return models.Validationf("ingredient %d: inventory item id is required", i)
		}
		if !ing.QtyPerUnit.IsPositive() {
			return models.Validationf("ingredient %s: qtyPerUnit must be positive, got %s", ing.InventoryItemID, ing.QtyPerUnit)
		}
		if _, dup := seen[ing.InventoryItemID]; dup {
			return models.Validationf("ingredient %s listed twice", ing.InventoryItemID)
		}
		seen[ing.InventoryItemID] = struct{}{}
		if _, ok := stock[ing.InventoryItemID]; !ok {
			return models.Validationf("ingredient %s: unknown inventory item", ing.InventoryItemID)
		}
	}
	return nil
}

func nonNegative(field string, d *decimal.Decimal) error {
	if d != nil && d.IsNegative() {
		return models.Validationf("%s must not be negative", field)
	}
	return nil
}
