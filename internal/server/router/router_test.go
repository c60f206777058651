package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/domain/policy"
	"github.com/mamadbah2/juicepos/internal/events"
	"github.com/mamadbah2/juicepos/internal/metrics"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	"github.com/mamadbah2/juicepos/internal/repository/store"
	"github.com/mamadbah2/juicepos/internal/server/handlers"
	"github.com/mamadbah2/juicepos/internal/service/inventory"
	"github.com/mamadbah2/juicepos/internal/service/notifications"
	"github.com/mamadbah2/juicepos/internal/service/pricing"
	"github.com/mamadbah2/juicepos/internal/service/reporting"
	"github.com/mamadbah2/juicepos/internal/service/sales"
	"github.com/mamadbah2/juicepos/internal/service/seed"
	"github.com/mamadbah2/juicepos/pkg/clients/whatsapp"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := store.Open("", store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	db := records.New(st)
	_, err = seed.NewInitializer(db, nil).EnsureSeeded(context.Background())
	require.NoError(t, err)

	p := policy.Default()
	m := metrics.NewRegistry()
	notifier := notifications.NewService(db, whatsapp.NewLinkClient(""), notifications.Options{DefaultCountryCode: "91"}, m, nil)
	bus := events.NewBus(time.Second, m, nil)
	bus.Subscribe(notifier)

	h := Handlers{
		Catalog: handlers.NewCatalogHandler(
			inventory.NewService(db, p, nil),
			pricing.NewEngine(db, pricing.DefaultConfig(), p, m, nil),
			nil),
		Sales:     handlers.NewSalesHandler(sales.NewEngine(db, p, bus, m, nil), nil),
		Messaging: handlers.NewMessagingHandler(notifier, nil),
		Reports:   handlers.NewReportHandler(reporting.NewService(db, nil, time.UTC, nil), time.UTC, nil),
		Metrics:   m.Handler(),
	}
	return New(h, nil)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "juicepos_")
}

func TestListProductsIncludesAvailability(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 3)

	byID := map[string]models.ProductView{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Equal(t, int64(60), byID["mango-shake"].Availability.Units)
	assert.Equal(t, int64(66), byID["mango-juice"].Availability.Units)
	assert.Equal(t, int64(50), byID["sweet-lassi"].Availability.Units)
}

func TestCheckoutFlow(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodPost, "/sales",
		`{"items":[{"productId":"mango-shake","qty":2}],"paymentMode":"UPI","customerPhone":"98765 43210"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Sale models.Sale `json:"sale"`
		Bill struct {
			Status string `json:"status"`
		} `json:"bill"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Sale.Total.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, "sent", resp.Bill.Status)

	w = do(t, r, http.MethodGet, "/inventory", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	for _, it := range items {
		if it.ID == "mango" {
			assert.Equal(t, "19.5", it.Qty.String())
		}
	}

	w = do(t, r, http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.NotificationLogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, models.ContextCustomerBill, logs[0].Context)
	assert.True(t, strings.HasPrefix(logs[0].Link, "https://wa.me/919876543210?text="))

	w = do(t, r, http.MethodGet, "/sales?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(t, r, http.MethodGet, "/reports/daily", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.DailySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.SalesCount)
	require.NotNil(t, summary.TopProduct)
	assert.Equal(t, "Mango Shake", summary.TopProduct.Name)
}

func TestErrorStatuses(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed sale", http.MethodPost, "/sales", `{"items":`, http.StatusBadRequest},
		{"unknown product in sale", http.MethodPost, "/sales", `{"items":[{"productId":"nope","qty":1}],"paymentMode":"Cash"}`, http.StatusBadRequest},
		{"invalid payment mode", http.MethodPost, "/sales", `{"items":[{"productId":"mango-shake","qty":1}],"paymentMode":"Barter"}`, http.StatusBadRequest},
		{"missing product", http.MethodGet, "/products/nope", "", http.StatusNotFound},
		{"missing recipe", http.MethodGet, "/recipes/nope", "", http.StatusNotFound},
		{"recipe for unknown product", http.MethodPut, "/recipes/nope", `{"ingredients":[{"inventoryItemId":"mango","qtyPerUnit":0.2}]}`, http.StatusBadRequest},
		{"bad report date", http.MethodGet, "/reports/daily?date=21-10-2025", "", http.StatusBadRequest},
		{"negative limit", http.MethodGet, "/sales?limit=-1", "", http.StatusBadRequest},
		{"empty outbound", http.MethodPost, "/send-message", `{"to":"","message":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRepriceAndCost(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/products/mango-shake/cost", "")
	require.Equal(t, http.StatusOK, w.Code)
	var preview pricing.PriceQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, "48.85", preview.Cost.String())

	w = do(t, r, http.MethodPost, "/products/mango-shake/reprice", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/products/mango-shake", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.ProductView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "70", p.Price.String())
}

func TestInventoryEditAndDelete(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodPut, "/inventory/ice", `{"qty":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/inventory/low-stock", "")
	require.Equal(t, http.StatusOK, w.Code)
	var low []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &low))
	require.Len(t, low, 1)
	assert.Equal(t, "ice", low[0].ID)

	w = do(t, r, http.MethodDelete, "/inventory/ice", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
