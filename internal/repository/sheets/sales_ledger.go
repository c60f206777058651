package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

// SalesLedger mirrors every committed sale into a spreadsheet, one row per line:
// sale id, date, product id, product name, qty, unit price, payment mode.
type SalesLedger struct {
	repo       Repository
	sheetRange string
}

// NewSalesLedger builds a ledger writing into sheetRange.
func NewSalesLedger(repo Repository, sheetRange string) *SalesLedger {
	return &SalesLedger{repo: repo, sheetRange: sheetRange}
}

func (l *SalesLedger) Name() string { return "sheets" }

// HandleSaleRecorded appends the sale's lines.
func (l *SalesLedger) HandleSaleRecorded(ctx context.Context, evt models.SaleRecorded) error {
	if err := l.repo.WriteRows(ctx, l.sheetRange, ledgerRows(evt.Sale)); err != nil {
		return fmt.Errorf("ledger sale %d: %w", evt.Sale.ID, err)
	}
	return nil
}

func ledgerRows(s models.Sale) [][]interface{} {
	rows := make([][]interface{}, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, []interface{}{
			s.ID,
			s.Date.Format(time.RFC3339),
			it.ProductID,
			it.ProductName,
			it.Qty,
			it.UnitPrice.String(),
			string(s.PaymentMode),
		})
	}
	return rows
}
