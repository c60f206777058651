package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	"github.com/mamadbah2/juicepos/internal/repository/store"
	"github.com/mamadbah2/juicepos/internal/service/seed"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func newSeededDB(t *testing.T) *records.DB {
	t.Helper()
	st, err := store.Open("", store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	db := records.New(st)
	_, err = seed.NewInitializer(db, nil).EnsureSeeded(context.Background())
	require.NoError(t, err)
	return db
}

func appendSale(t *testing.T, db *records.DB, at time.Time, name string, qty int64, price int64) {
	t.Helper()
	require.NoError(t, db.Update(context.Background(), func(r records.Repos) error {
		line := models.SaleLine{ProductName: name, Qty: qty, UnitPrice: decimal.NewFromInt(price)}
		return r.Sales.Append(&models.Sale{
			Date:        at.UTC(),
			Items:       []models.SaleLine{line},
			Total:       line.Subtotal(),
			PaymentMode: models.PaymentCash,
		})
	}))
}

type fakeArchive struct {
	saved []models.DailySummary
	err   error
}

func (f *fakeArchive) SaveDailySummary(_ context.Context, s models.DailySummary) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

func TestDailySummary(t *testing.T) {
	db := newSeededDB(t)
	day := time.Date(2025, 10, 21, 15, 0, 0, 0, ist)

	// Day boundaries follow the shop's zone, not UTC: the first sale of the 21st is
	// stored as 20 Oct 18:40 UTC.
	appendSale(t, db, day.AddDate(0, 0, -1), "Sweet Lassi", 9, 80)
	appendSale(t, db, time.Date(2025, 10, 21, 0, 10, 0, 0, ist), "Mango Shake", 2, 120)
	appendSale(t, db, time.Date(2025, 10, 21, 23, 50, 0, 0, ist), "Mango Juice", 1, 90)
	appendSale(t, db, time.Date(2025, 10, 22, 0, 5, 0, 0, ist), "Mango Shake", 1, 120)

	require.NoError(t, db.Update(context.Background(), func(r records.Repos) error {
		cup, err := r.Inventory.Get("cup")
		if err != nil {
			return err
		}
		cup.Qty = decimal.NewFromInt(40)
		return r.Inventory.Put(cup)
	}))

	svc := NewService(db, nil, ist, nil)
	ctx := context.Background()
	_, err := svc.AddPrediction(ctx, models.Prediction{Date: day.AddDate(0, 0, 1), ProductID: "mango-shake", PredictedUnits: 40})
	require.NoError(t, err)
	_, err = svc.AddPrediction(ctx, models.Prediction{Date: day.AddDate(0, 0, 3), ProductName: "Mango Juice", PredictedUnits: 10})
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 10, 21, 0, 0, 0, 0, ist), summary.Date)
	assert.Equal(t, 2, summary.SalesCount)
	assert.True(t, summary.SalesTotal.Equal(decimal.NewFromInt(330)), summary.SalesTotal.String())

	require.NotNil(t, summary.TopProduct)
	assert.Equal(t, models.TopProduct{Name: "Sweet Lassi", Units: 9}, *summary.TopProduct)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "cup", summary.LowStock[0].ID)

	require.Len(t, summary.Predictions, 1)
	assert.Equal(t, "Mango Shake", summary.Predictions[0].ProductName)
}

func TestDailySummary_EmptyShop(t *testing.T) {
	svc := NewService(newSeededDB(t), nil, nil, nil)

	summary, err := svc.DailySummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, summary.SalesCount)
	assert.True(t, summary.SalesTotal.IsZero())
	assert.Nil(t, summary.TopProduct)
	assert.Empty(t, summary.LowStock)
	assert.True(t, strings.HasSuffix(FormatSummary(summary, "₹"), "Low stock: none"))
}

func TestArchiveDailySummary(t *testing.T) {
	db := newSeededDB(t)
	archive := &fakeArchive{}
	svc := NewService(db, archive, ist, nil)

	_, err := svc.ArchiveDailySummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Len(t, archive.saved, 1)

	archive.err = errors.New("mongo down")
	_, err = svc.ArchiveDailySummary(context.Background(), time.Now())
	assert.ErrorContains(t, err, "mongo down")
}

func TestFormatSummary(t *testing.T) {
	conf := 0.9
	summary := models.DailySummary{
		Date:       time.Date(2025, 10, 21, 0, 0, 0, 0, ist),
		SalesTotal: decimal.NewFromInt(330),
		SalesCount: 2,
		TopProduct: &models.TopProduct{Name: "Mango Shake", Units: 3},
		LowStock:   []models.LowStockLine{{ID: "cup", Name: "Cups", Qty: decimal.NewFromInt(40), Unit: "pcs"}},
		Predictions: []models.Prediction{
			{Date: time.Date(2025, 10, 22, 0, 0, 0, 0, ist), ProductName: "Mango Shake", PredictedUnits: 40, Confidence: &conf},
			{Date: time.Date(2025, 10, 22, 0, 0, 0, 0, ist), ProductName: "Sweet Lassi", PredictedUnits: 12},
		},
	}

	want := "Daily summary 2025-10-21\n" +
		"Sales: ₹330 across 2 orders\n" +
		"Top juice: Mango Shake (3 cups)\n" +
		"Low stock: Cups 40 pcs\n" +
		"Forecast 2025-10-22: Mango Shake 40 cups (90%)\n" +
		"Forecast 2025-10-22: Sweet Lassi 12 cups (80%)"
	assert.Equal(t, want, FormatSummary(summary, "₹"))
}

func TestAddPrediction_Validation(t *testing.T) {
	svc := NewService(newSeededDB(t), nil, nil, nil)
	ctx := context.Background()
	now := time.Now()
	bad := 1.5

	tests := []struct {
		name string
		p    models.Prediction
	}{
		{"no date", models.Prediction{ProductName: "Mango Shake"}},
		{"no product", models.Prediction{Date: now}},
		{"negative units", models.Prediction{Date: now, ProductName: "x", PredictedUnits: -1}},
		{"confidence above one", models.Prediction{Date: now, ProductName: "x", Confidence: &bad}},
		{"unknown product id", models.Prediction{Date: now, ProductID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddPrediction(ctx, tt.p)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	preds, err := svc.ListPredictions(ctx)
	require.NoError(t, err)
	assert.Empty(t, preds)
}
