// Package policy holds the named business switches shared by the inventory, sales and
// pricing engines. Tests and configuration target these switches rather than inferred
// behavior.
package policy

import (
	"fmt"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// MissingIngredientMode decides what happens when a recipe references an inventory item
// that does not exist.
type MissingIngredientMode int

const (
	// SkipMissing ignores the ingredient: no deduction, no cost contribution.
	SkipMissing MissingIngredientMode = iota
	// RejectMissing fails the operation with a validation error.
	RejectMissing
)

func (m MissingIngredientMode) String() string {
	if m == RejectMissing {
		return "reject"
	}
	return "skip"
}

// Policy bundles the business rules of the shop.
type Policy struct {
	// AllowOversell lets a sale go through even when stock cannot cover it. Stock clamps at zero.
	AllowOversell bool
	// NoRecipeMeansUnlimited treats products without a recipe as always available.
	NoRecipeMeansUnlimited bool
	// MissingIngredient governs dangling inventory references in deduction and costing.
	MissingIngredient MissingIngredientMode
	// RepriceWithoutRecipe lets a recipe-less product be repriced to a zero-cost price.
	RepriceWithoutRecipe bool
}

// Default returns the shop's standard rules.
func Default() Policy {
	return Policy{
		AllowOversell:          true,
		NoRecipeMeansUnlimited: true,
		MissingIngredient:      SkipMissing,
		RepriceWithoutRecipe:   false,
	}
}

// ResolveIngredient is the single decision point for a recipe ingredient whose inventory
// lookup returned found. It returns use=false when the ingredient must be skipped.
func (p Policy) ResolveIngredient(ing models.Ingredient, found bool) (use bool, err error) {
	if found {
		return true, nil
	}
	if p.MissingIngredient == RejectMissing {
		return false, fmt.Errorf("%w: ingredient %w", models.ErrValidation, models.NotFoundf("inventory item", ing.InventoryItemID))
	}
	return false, nil
}
