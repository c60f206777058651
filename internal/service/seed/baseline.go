package seed

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// Baseline is the fixed data set a fresh shop starts with.
type Baseline struct {
	Inventory []models.InventoryItem
	Products  []models.Product
	Recipes   []models.Recipe
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func markup(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func item(id, name, unit, qty, reorder, cost string) models.InventoryItem {
	return models.InventoryItem{ID: id, Name: name, Unit: unit, Qty: d(qty), ReorderLevel: d(reorder), CostPerUnit: d(cost)}
}

func ing(id, qty string) models.Ingredient {
	return models.Ingredient{InventoryItemID: id, QtyPerUnit: d(qty)}
}

// DefaultBaseline returns the juice shop's starting inventory, menu and recipes.
func DefaultBaseline() Baseline {
	return Baseline{
		Inventory: []models.InventoryItem{
			item("mango", "Mango", "kg", "20", "5", "120"),
			item("sugar", "Sugar", "kg", "10", "2", "45"),
			item("ice", "Ice", "kg", "30", "5", "5"),
			item("milk", "Milk", "L", "15", "5", "60"),
			item("cup", "Cups", "pcs", "200", "50", "2"),
		},
		Products: []models.Product{
			{
				ID: "mango-shake", Name: "Mango Shake", Price: d("120"), Markup: markup("0.35"),
				Image: "https://images.unsplash.com/photo-1619898804188-e7bad4bd2127?w=1600&auto=format&fit=crop&q=80",
			},
			{
				ID: "mango-juice", Name: "Mango Juice", Price: d("90"), Markup: markup("0.3"),
				Image: "https://images.unsplash.com/photo-1524156868115-e696b44983db?w=1600&auto=format&fit=crop&q=80",
			},
			{
				ID: "sweet-lassi", Name: "Sweet Lassi", Price: d("80"), Markup: markup("0.28"),
				Image: "https://images.unsplash.com/photo-1623428450306-9ddfe75306d8?q=80&w=1200&auto=format&fit=crop",
			},
		},
		Recipes: []models.Recipe{
			{ProductID: "mango-shake", Ingredients: []models.Ingredient{
				ing("mango", "0.25"), ing("milk", "0.25"), ing("sugar", "0.03"), ing("ice", "0.1"), ing("cup", "1"),
			}},
			{ProductID: "mango-juice", Ingredients: []models.Ingredient{
				ing("mango", "0.3"), ing("sugar", "0.03"), ing("ice", "0.1"), ing("cup", "1"),
			}},
			{ProductID: "sweet-lassi", Ingredients: []models.Ingredient{
				ing("milk", "0.3"), ing("sugar", "0.04"), ing("ice", "0.08"), ing("cup", "1"),
			}},
		},
	}
}
