package records

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/store"
)

func newDB(t *testing.T) *DB {
	t.Helper()
	st, err := store.Open("", store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st)
}

func TestProducts_GetMissingIsNotFound(t *testing.T) {
	db := newDB(t)
	err := db.View(context.Background(), func(r Repos) error {
		_, err := r.Products.Get("nope")
		return err
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), `product "nope"`)
}

func TestProducts_PutGetAllDelete(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	require.NoError(t, db.Update(ctx, func(r Repos) error {
		if err := r.Products.Put(models.Product{ID: "mango-shake", Name: "Mango Shake", Price: decimal.NewFromInt(120)}); err != nil {
			return err
		}
		return r.Products.Put(models.Product{ID: "lassi", Name: "Sweet Lassi", Price: decimal.NewFromInt(80)})
	}))

	var all []models.Product
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		all, err = r.Products.GetAll()
		return err
	}))
	require.Len(t, all, 2)
	assert.Equal(t, "lassi", all[0].ID)
	assert.True(t, all[1].Price.Equal(decimal.NewFromInt(120)))
	assert.False(t, all[1].Markup.Valid)

	require.NoError(t, db.Update(ctx, func(r Repos) error { return r.Products.Delete("lassi") }))
	require.NoError(t, db.View(ctx, func(r Repos) error {
		_, ok, err := r.Products.Find("lassi")
		assert.False(t, ok)
		return err
	}))
}

func TestSales_AppendAssignsOrderedIDs(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		require.NoError(t, db.Update(ctx, func(r Repos) error {
			s := models.Sale{Date: time.Now(), PaymentMode: models.PaymentCash, Total: decimal.NewFromInt(int64(i))}
			return r.Sales.Append(&s)
		}))
	}

	var sales []models.Sale
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		sales, err = r.Sales.GetAll()
		return err
	}))
	require.Len(t, sales, 11)
	for i, s := range sales {
		assert.Equal(t, int64(i+1), s.ID)
	}

	var tenth models.Sale
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		tenth, err = r.Sales.Get(10)
		return err
	}))
	assert.True(t, tenth.Total.Equal(decimal.NewFromInt(9)))
}

func TestInventory_Snapshot(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	require.NoError(t, db.Update(ctx, func(r Repos) error {
		if err := r.Inventory.Put(models.InventoryItem{ID: "milk", Qty: decimal.RequireFromString("15")}); err != nil {
			return err
		}
		return r.Inventory.Put(models.InventoryItem{ID: "cup", Qty: decimal.RequireFromString("200")})
	}))

	var snap map[string]models.InventoryItem
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		snap, err = r.Inventory.Snapshot()
		return err
	}))
	assert.Len(t, snap, 2)
	assert.True(t, snap["milk"].Qty.Equal(decimal.NewFromInt(15)))
}

func TestSettings_Flag(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()

	var seeded bool
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		seeded, err = r.Settings.Flag(models.SettingSeeded)
		return err
	}))
	assert.False(t, seeded)

	require.NoError(t, db.Update(ctx, func(r Repos) error {
		return r.Settings.Put(models.Setting{Key: models.SettingSeeded, Value: "true"})
	}))
	require.NoError(t, db.View(ctx, func(r Repos) error {
		var err error
		seeded, err = r.Settings.Flag(models.SettingSeeded)
		return err
	}))
	assert.True(t, seeded)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "x", "0", "-3"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, models.ErrValidation, raw)
	}
}
