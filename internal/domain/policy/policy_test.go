package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.True(t, p.AllowOversell)
	assert.True(t, p.NoRecipeMeansUnlimited)
	assert.Equal(t, SkipMissing, p.MissingIngredient)
	assert.False(t, p.RepriceWithoutRecipe)
}

func TestResolveIngredient(t *testing.T) {
	ing := models.Ingredient{InventoryItemID: "ghost", QtyPerUnit: decimal.NewFromInt(1)}

	t.Run("found is always used", func(t *testing.T) {
		for _, mode := range []MissingIngredientMode{SkipMissing, RejectMissing} {
			use, err := Policy{MissingIngredient: mode}.ResolveIngredient(ing, true)
			require.NoError(t, err)
			assert.True(t, use)
		}
	})

	t.Run("missing is skipped by default", func(t *testing.T) {
		use, err := Default().ResolveIngredient(ing, false)
		require.NoError(t, err)
		assert.False(t, use)
	})

	t.Run("missing is rejected in strict mode", func(t *testing.T) {
		use, err := Policy{MissingIngredient: RejectMissing}.ResolveIngredient(ing, false)
		assert.False(t, use)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Contains(t, err.Error(), "ghost")
	})
}
