// Package seed loads the shop's baseline data into an empty store.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

// Initializer writes the baseline exactly once per store.
type Initializer struct {
	db       *records.DB
	baseline Baseline
	logger   *zap.Logger
}

// NewInitializer wires an initializer for the default baseline.
func NewInitializer(db *records.DB, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{db: db, baseline: DefaultBaseline(), logger: logger}
}

// WithBaseline replaces the data set to load.
func (i *Initializer) WithBaseline(b Baseline) *Initializer {
	i.baseline = b
	return i
}

// EnsureSeeded loads the baseline and the seeded flag in one transaction. It reports
// whether anything was written; a store that is already seeded is left untouched.
func (i *Initializer) EnsureSeeded(ctx context.Context) (bool, error) {
	var loaded bool
	err := i.db.Update(ctx, func(r records.Repos) error {
		seeded, err := r.Settings.Flag(models.SettingSeeded)
		if err != nil || seeded {
			return err
		}

		for _, it := range i.baseline.Inventory {
			if err := r.Inventory.Put(it); err != nil {
				return err
			}
		}
		for _, p := range i.baseline.Products {
			if err := r.Products.Put(p); err != nil {
				return err
			}
		}
		for _, rec := range i.baseline.Recipes {
			if err := r.Recipes.Put(rec); err != nil {
				return err
			}
		}
		loaded = true
		return r.Settings.Put(models.Setting{Key: models.SettingSeeded, Value: "true"})
	})
	if err != nil {
		return false, fmt.Errorf("seed baseline: %w", err)
	}

	if loaded {
		i.logger.Info("baseline loaded",
			zap.Int("inventory", len(i.baseline.Inventory)),
			zap.Int("products", len(i.baseline.Products)),
			zap.Int("recipes", len(i.baseline.Recipes)),
		)
	} else {
		i.logger.Debug("store already seeded")
	}
	return loaded, nil
}
