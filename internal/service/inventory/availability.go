package inventory

import (
	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/domain/policy"
)

// ComputeAvailability returns how many units of a product the given stock supports.
//
// A nil or empty recipe yields the unlimited sentinel (or zero when the policy disables
// NoRecipeMeansUnlimited). Otherwise the result is the minimum over ingredients of
// floor(qty / qtyPerUnit), and an ingredient whose inventory item is missing yields zero.
// A non-positive qtyPerUnit is invalid input and is reported, never computed.
func ComputeAvailability(recipe *models.Recipe, stock map[string]models.InventoryItem, p policy.Policy) (models.Availability, error) {
	if recipe == nil || len(recipe.Ingredients) == 0 {
		if p.NoRecipeMeansUnlimited {
			return models.UnlimitedAvailability(), nil
		}
		return models.Availability{}, nil
	}

	var (
		units int64
		first = true
	)
	for _, ing := range recipe.Ingredients {
		if !ing.QtyPerUnit.IsPositive() {
			return models.Availability{}, models.Validationf("recipe %s: ingredient %s has non-positive qtyPerUnit %s",
				recipe.ProductID, ing.InventoryItemID, ing.QtyPerUnit)
		}

		var possible int64
		if item, ok := stock[ing.InventoryItemID]; ok && item.Qty.IsPositive() {
			possible = item.Qty.Div(ing.QtyPerUnit).Floor().IntPart()
		}

		if first || possible < units {
			units = possible
			first = false
		}
	}
	return models.Availability{Units: units}, nil
}
