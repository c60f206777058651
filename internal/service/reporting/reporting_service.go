package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

const dateLayout = "2006-01-02"

// Archive stores generated summaries outside the record store.
type Archive interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Service builds the dashboard views over the record store.
type Service struct {
	db      *records.DB
	archive Archive
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil; loc defaults to UTC.
func NewService(db *records.DB, archive Archive, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, archive: archive, loc: loc, logger: logger, now: time.Now}
}

// DailySummary aggregates the business day containing day, in the shop's time zone.
// The top product is ranked over every recorded sale.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	start := startOfDay(day.In(s.loc))
	end := start.AddDate(0, 0, 1)

	summary := models.DailySummary{
		Date:        start,
		SalesTotal:  decimal.Zero,
		LowStock:    []models.LowStockLine{},
		Predictions: []models.Prediction{},
		CreatedAt:   s.now().UTC(),
	}

	err := s.db.View(ctx, func(r records.Repos) error {
		sales, err := r.Sales.GetAll()
		if err != nil {
			return err
		}
		units := map[string]int64{}
		for _, sale := range sales {
			if inRange(sale.Date, start, end) {
				summary.SalesTotal = summary.SalesTotal.Add(sale.Total)
				summary.SalesCount++
			}
			for _, it := range sale.Items {
				units[it.ProductName] += it.Qty
			}
		}
		summary.TopProduct = topProduct(units)

		items, err := r.Inventory.GetAll()
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.IsLow() {
				summary.LowStock = append(summary.LowStock, models.LowStockLine{ID: it.ID, Name: it.Name, Qty: it.Qty, Unit: it.Unit})
			}
		}

		preds, err := r.Predictions.GetAll()
		if err != nil {
			return err
		}
		for _, p := range preds {
			if inRange(p.Date, start, end.AddDate(0, 0, 1)) {
				summary.Predictions = append(summary.Predictions, p)
			}
		}
		return nil
	})
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("daily summary %s: %w", start.Format(dateLayout), err)
	}

	return summary, nil
}

// ArchiveDailySummary builds the summary of day and stores it in the archive, when one is
// configured.
func (s *Service) ArchiveDailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	summary, err := s.DailySummary(ctx, day)
	if err != nil {
		return models.DailySummary{}, err
	}
	if s.archive == nil {
		return summary, nil
	}
	if err := s.archive.SaveDailySummary(ctx, summary); err != nil {
		return summary, fmt.Errorf("archive daily summary: %w", err)
	}
	s.logger.Info("daily summary archived", zap.String("day", summary.Date.Format(dateLayout)))
	return summary, nil
}

// FormatSummary renders a summary as a WhatsApp message.
func FormatSummary(summary models.DailySummary, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary %s\n", summary.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Sales: %s%s across %d orders\n", currency, summary.SalesTotal.String(), summary.SalesCount)

	if summary.TopProduct != nil {
		fmt.Fprintf(&b, "Top juice: %s (%d cups)\n", summary.TopProduct.Name, summary.TopProduct.Units)
	}

	if len(summary.LowStock) == 0 {
		b.WriteString("Low stock: none")
	} else {
		lines := make([]string, 0, len(summary.LowStock))
		for _, l := range summary.LowStock {
			lines = append(lines, fmt.Sprintf("%s %s %s", l.Name, l.Qty.String(), l.Unit))
		}
		b.WriteString("Low stock: " + strings.Join(lines, ", "))
	}

	for _, p := range summary.Predictions {
		fmt.Fprintf(&b, "\nForecast %s: %s %d cups (%.0f%%)", p.Date.Format(dateLayout), p.ProductName, p.PredictedUnits, p.ConfidenceOrDefault()*100)
	}
	return b.String()
}

func topProduct(units map[string]int64) *models.TopProduct {
	if len(units) == 0 {
		return nil
	}
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if units[names[i]] != units[names[j]] {
			return units[names[i]] > units[names[j]]
		}
		return names[i] < names[j]
	})
	return &models.TopProduct{Name: names[0], Units: units[names[0]]}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
