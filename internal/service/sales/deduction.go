package sales

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/records"
)

// deduction is the per-item demand of one sale, in first-seen order.
type deduction struct {
	order []string
	items map[string]models.InventoryItem
	need  map[string]decimal.Decimal
}

func newDeduction() *deduction {
	return &deduction{
		items: make(map[string]models.InventoryItem),
		need:  make(map[string]decimal.Decimal),
	}
}

func (d *deduction) add(item models.InventoryItem, amount decimal.Decimal) {
	if _, ok := d.items[item.ID]; !ok {
		d.order = append(d.order, item.ID)
		d.items[item.ID] = item
	}
	d.need[item.ID] = d.need[item.ID].Add(amount)
}

func (d *deduction) checkCovered() error {
	for _, id := range d.order {
		it := d.items[id]
		if need := d.need[id]; need.GreaterThan(it.Qty) {
			return fmt.Errorf("%w: %s needs %s %s, %s in stock", models.ErrInsufficientStock, it.Name, need, it.Unit, it.Qty)
		}
	}
	return nil
}

// deduct writes the new quantities, clamped at zero.
func (d *deduction) deduct(r records.Repos) error {
	for _, id := range d.order {
		it := d.items[id]
		it.Qty = decimal.Max(decimal.Zero, it.Qty.Sub(d.need[id]))
		if err := r.Inventory.Put(it); err != nil {
			return err
		}
	}
	return nil
}
