// Package records exposes one typed repository per entity kind. All repositories bound to
// the same transaction commit or roll back together.
package records

import (
	"context"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/store"
)

// ProductRepository stores the catalog.
type ProductRepository interface {
	Repository[string, models.Product]
}

// InventoryRepository stores raw ingredients.
type InventoryRepository interface {
	Repository[string, models.InventoryItem]
	// Snapshot returns every item keyed by id.
	Snapshot() (map[string]models.InventoryItem, error)
}

// RecipeRepository stores recipes keyed by product id.
type RecipeRepository interface {
	Repository[string, models.Recipe]
}

// SaleRepository stores the append-only sales journal.
type SaleRepository interface {
	Repository[int64, models.Sale]
	Append(s *models.Sale) error
}

// NotificationRepository stores the append-only outbound message log.
type NotificationRepository interface {
	Repository[int64, models.NotificationLogEntry]
	Append(e *models.NotificationLogEntry) error
}

// PredictionRepository stores externally supplied forecasts.
type PredictionRepository interface {
	Repository[int64, models.Prediction]
	Append(p *models.Prediction) error
}

// SettingsRepository stores process-wide flags.
type SettingsRepository interface {
	Repository[string, models.Setting]
	// Flag reports whether key is set to true.
	Flag(key string) (bool, error)
}

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Products      ProductRepository
	Inventory     InventoryRepository
	Recipes       RecipeRepository
	Sales         SaleRepository
	Notifications NotificationRepository
	Predictions   PredictionRepository
	Settings      SettingsRepository
}

// Bind builds the repositories over tx.
func Bind(tx store.Tx) Repos {
	return Repos{
		Products: collection[string, models.Product]{
			tx: tx, name: store.Products, kind: "product",
			encodeKey: stringKey, keyOf: func(p models.Product) string { return p.ID },
		},
		Inventory: inventoryRepo{collection[string, models.InventoryItem]{
			tx: tx, name: store.Inventory, kind: "inventory item",
			encodeKey: stringKey, keyOf: func(i models.InventoryItem) string { return i.ID },
		}},
		Recipes: collection[string, models.Recipe]{
			tx: tx, name: store.Recipes, kind: "recipe",
			encodeKey: stringKey, keyOf: func(r models.Recipe) string { return r.ProductID },
		},
		Sales: sequenced[models.Sale]{
			collection: collection[int64, models.Sale]{
				tx: tx, name: store.Sales, kind: "sale",
				encodeKey: numericKey, keyOf: func(s models.Sale) int64 { return s.ID },
			},
			setID: func(s *models.Sale, id int64) { s.ID = id },
		},
		Notifications: sequenced[models.NotificationLogEntry]{
			collection: collection[int64, models.NotificationLogEntry]{
				tx: tx, name: store.Notifications, kind: "notification",
				encodeKey: numericKey, keyOf: func(e models.NotificationLogEntry) int64 { return e.ID },
			},
			setID: func(e *models.NotificationLogEntry, id int64) { e.ID = id },
		},
		Predictions: sequenced[models.Prediction]{
			collection: collection[int64, models.Prediction]{
				tx: tx, name: store.Predictions, kind: "prediction",
				encodeKey: numericKey, keyOf: func(p models.Prediction) int64 { return p.ID },
			},
			setID: func(p *models.Prediction, id int64) { p.ID = id },
		},
		Settings: settingsRepo{collection[string, models.Setting]{
			tx: tx, name: store.Settings, kind: "setting",
			encodeKey: stringKey, keyOf: func(s models.Setting) string { return s.Key },
		}},
	}
}

type inventoryRepo struct {
	collection[string, models.InventoryItem]
}

func (r inventoryRepo) Snapshot() (map[string]models.InventoryItem, error) {
	items, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.InventoryItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

type settingsRepo struct {
	collection[string, models.Setting]
}

func (r settingsRepo) Flag(key string) (bool, error) {
	s, ok, err := r.Find(key)
	if err != nil || !ok {
		return false, err
	}
	return s.Enabled(), nil
}

// DB runs repository transactions over a record store.
type DB struct {
	store store.Store
}

// New wraps st.
func New(st store.Store) *DB {
	return &DB{store: st}
}

// View runs fn over a consistent read-only snapshot.
func (d *DB) View(ctx context.Context, fn func(r Repos) error) error {
	return d.store.View(ctx, func(tx store.Tx) error { return fn(Bind(tx)) })
}

// Update runs fn atomically; every write made through r commits together or not at all.
func (d *DB) Update(ctx context.Context, fn func(r Repos) error) error {
	return d.store.Update(ctx, func(tx store.Tx) error { return fn(Bind(tx)) })
}
