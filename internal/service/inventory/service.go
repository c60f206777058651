package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/domain/policy"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

// Service exposes the catalog, stock and recipe screens of the shop.
type Service struct {
	db       *records.DB
	policy   policy.Policy
	resolver Resolver
	logger   *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(db *records.DB, p policy.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, policy: p, logger: logger}
}

// ListProducts returns every product with the units current stock supports.
func (s *Service) ListProducts(ctx context.Context) ([]models.ProductView, error) {
	var views []models.ProductView
	err := s.db.View(ctx, func(r records.Repos) error {
		products, err := r.Products.GetAll()
		if err != nil {
			return err
		}
		stock, err := r.Inventory.Snapshot()
		if err != nil {
			return err
		}

		views = make([]models.ProductView, 0, len(products))
		for _, p := range products {
			avail, err := s.availability(r, p.ID, stock)
			if err != nil {
				return err
			}
			views = append(views, models.ProductView{Product: p, Availability: avail})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return views, nil
}

// GetProduct returns one product with its availability.
func (s *Service) GetProduct(ctx context.Context, id string) (models.ProductView, error) {
	var view models.ProductView
	err := s.db.View(ctx, func(r records.Repos) error {
		p, err := r.Products.Get(id)
		if err != nil {
			return err
		}
		stock, err := r.Inventory.Snapshot()
		if err != nil {
			return err
		}
		avail, err := s.availability(r, id, stock)
		if err != nil {
			return err
		}
		view = models.ProductView{Product: p, Availability: avail}
		return nil
	})
	return view, err
}

func (s *Service) availability(r records.Repos, productID string, stock map[string]models.InventoryItem) (models.Availability, error) {
	recipe, err := s.resolver.ResolvePtr(r, productID)
	if err != nil {
		return models.Availability{}, err
	}
	return ComputeAvailability(recipe, stock, s.policy)
}

// UpdateProduct applies the non-nil fields of upd to product id.
func (s *Service) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (models.Product, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return models.Product{}, models.Validationf("product name must not be empty")
	}
	if err := nonNegative("price", upd.Price); err != nil {
		return models.Product{}, err
	}
	if err := nonNegative("markup", upd.Markup); err != nil {
		return models.Product{}, err
	}

	var out models.Product
	err := s.db.Update(ctx, func(r records.Repos) error {
		p, err := r.Products.Get(id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			p.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.Markup != nil {
			p.Markup.Decimal, p.Markup.Valid = *upd.Markup, true
		}
		if upd.Image != nil {
			p.Image = *upd.Image
		}
		out = p
		return r.Products.Put(p)
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.Info("product updated", zap.String("product_id", id), zap.String("price", out.Price.String()))
	return out, nil
}

// ListInventory returns every inventory item ordered by id.
func (s *Service) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.View(ctx, func(r records.Repos) error {
		var err error
		items, err = r.Inventory.GetAll()
		return err
	})
	return items, err
}

// LowStock returns the items sitting at or below their reorder level, lowest quantity first.
func (s *Service) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.InventoryItem, 0)
	for _, it := range items {
		if it.IsLow() {
			low = append(low, it)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Qty.LessThan(low[j].Qty) })
	return low, nil
}

// UpdateItem applies the non-nil fields of upd to inventory item id.
func (s *Service) UpdateItem(ctx context.Context, id string, upd models.InventoryUpdate) (models.InventoryItem, error) {
	if err := nonNegative("qty", upd.Qty); err != nil {
		return models.InventoryItem{}, err
	}
	if err := nonNegative("reorderLevel", upd.ReorderLevel); err != nil {
		return models.InventoryItem{}, err
	}
	if err := nonNegative("costPerUnit", upd.CostPerUnit); err != nil {
		return models.InventoryItem{}, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return models.InventoryItem{}, models.Validationf("inventory item name must not be empty")
	}

	var out models.InventoryItem
	err := s.db.Update(ctx, func(r records.Repos) error {
		it, err := r.Inventory.Get(id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			it.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Unit != nil {
			it.Unit = *upd.Unit
		}
		if upd.Qty != nil {
			it.Qty = *upd.Qty
		}
		if upd.ReorderLevel != nil {
			it.ReorderLevel = *upd.ReorderLevel
		}
		if upd.CostPerUnit != nil {
			it.CostPerUnit = *upd.CostPerUnit
		}
		out = it
		return r.Inventory.Put(it)
	})
	if err != nil {
		return models.InventoryItem{}, err
	}

	s.logger.Info("inventory item updated", zap.String("item_id", id), zap.String("qty", out.Qty.String()))
	return out, nil
}

// DeleteItem removes an inventory item. Recipes still pointing at it fall under the
// missing-ingredient policy.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	err := s.db.Update(ctx, func(r records.Repos) error {
		if _, err := r.Inventory.Get(id); err != nil {
			return err
		}
		return r.Inventory.Delete(id)
	})
	if err != nil {
		return err
	}
	s.logger.Warn("inventory item deleted", zap.String("item_id", id))
	return nil
}

// ListRecipes returns every recipe ordered by product id.
func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.View(ctx, func(r records.Repos) error {
		var err error
		recipes, err = r.Recipes.GetAll()
		return err
	})
	return recipes, err
}

// GetRecipe returns the recipe of a product.
func (s *Service) GetRecipe(ctx context.Context, productID string) (models.Recipe, error) {
	var rec models.Recipe
	err := s.db.View(ctx, func(r records.Repos) error {
		var err error
		rec, err = r.Recipes.Get(productID)
		return err
	})
	return rec, err
}

// SaveRecipe replaces the recipe of an existing product.
func (s *Service) SaveRecipe(ctx context.Context, rec models.Recipe) error {
	err := s.db.Update(ctx, func(r records.Repos) error {
		if _, err := r.Products.Get(rec.ProductID); err != nil {
			if models.IsNotFound(err) {
				return fmt.Errorf("%w: %w", models.ErrValidation, err)
			}
			return err
		}
		stock, err := r.Inventory.Snapshot()
		if err != nil {
			return err
		}
		if err := validateRecipe(rec, stock); err != nil {
			return err
		}
		return r.Recipes.Put(rec)
	})
	if err != nil {
		return err
	}

	s.logger.Info("recipe saved", zap.String("product_id", rec.ProductID), zap.Int("ingredients", len(rec.Ingredients)))
	return nil
}

// DeleteRecipe removes a product's recipe; the product then consumes nothing.
func (s *Service) DeleteRecipe(ctx context.Context, productID string) error {
	return s.db.Update(ctx, func(r records.Repos) error {
		if _, err := r.Recipes.Get(productID); err != nil {
			return err
		}
		return r.Recipes.Delete(productID)
	})
}
