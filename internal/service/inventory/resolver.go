package inventory

import (
	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

// Resolver maps a product to its ingredient consumption vector.
type Resolver struct{}

// Resolve returns the product's recipe. found is false when the product consumes nothing.
func (Resolver) Resolve(r records.Repos, productID string) (recipe models.Recipe, found bool, err error) {
	return r.Recipes.Find(productID)
}

// ResolvePtr is Resolve shaped for ComputeAvailability: nil means no recipe.
func (res Resolver) ResolvePtr(r records.Repos, productID string) (*models.Recipe, error) {
	rec, ok, err := res.Resolve(r, productID)
	if err != nil || !ok {
		return nil, err
	}
	return &rec, nil
}
