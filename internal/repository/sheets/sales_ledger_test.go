package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

type fakeRepo struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (f *fakeRepo) WriteRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.sheetRange = sheetRange
	f.rows = append(f.rows, rows...)
	return nil
}

func TestSalesLedger_OneRowPerLine(t *testing.T) {
	repo := &fakeRepo{}
	ledger := NewSalesLedger(repo, "Sales!A:G")

	sale := models.Sale{
		ID:   4,
		Date: time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC),
		Items: []models.SaleLine{
			{ProductID: "mango-shake", ProductName: "Mango Shake", Qty: 2, UnitPrice: decimal.NewFromInt(120)},
			{ProductID: "sweet-lassi", ProductName: "Sweet Lassi", Qty: 1, UnitPrice: decimal.NewFromInt(80)},
		},
		PaymentMode: models.PaymentCard,
	}
	require.NoError(t, ledger.HandleSaleRecorded(context.Background(), models.SaleRecorded{Sale: sale}))

	assert.Equal(t, "Sales!A:G", repo.sheetRange)
	require.Len(t, repo.rows, 2)
	assert.Equal(t, []interface{}{int64(4), "2025-10-21T09:00:00Z", "mango-shake", "Mango Shake", int64(2), "120", "Card"}, repo.rows[0])
	assert.Equal(t, "sweet-lassi", repo.rows[1][2])
}

func TestSalesLedger_WrapsError(t *testing.T) {
	sentinel := errors.New("quota exceeded")
	ledger := NewSalesLedger(&fakeRepo{err: sentinel}, "Sales!A:G")

	err := ledger.HandleSaleRecorded(context.Background(), models.SaleRecorded{Sale: models.Sale{ID: 9}})
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "ledger sale 9")
}
