// Package sales records checkouts: one atomic transaction writes the sale and deducts the
// ingredients it consumed, then the committed sale is announced to the event handlers.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/domain/policy"
	"github.com/mamadbah2/juicepos/internal/events"
	"github.com/mamadbah2/juicepos/internal/metrics"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	"github.com/mamadbah2/juicepos/internal/service/inventory"
)

// Publisher announces committed sales.
type Publisher interface {
	PublishSaleRecorded(ctx context.Context, evt models.SaleRecorded) events.Results
}

// Receipt is the outcome of a successful checkout.
type Receipt struct {
	Sale models.Sale
	// NotificationErr is set when the sale committed but the bill could not be delivered.
	NotificationErr error
	// HandlerErr joins every post-commit handler failure, the notification one included.
	HandlerErr error
}

// Engine records sales.
type Engine struct {
	db        *records.DB
	policy    policy.Policy
	resolver  inventory.Resolver
	publisher Publisher
	metrics   *metrics.Registry
	tracer    trace.Tracer
	logger    *zap.Logger

	now     func() time.Time
	eventID func() string
}

// NewEngine wires a sale engine. publisher and m may be nil.
func NewEngine(db *records.DB, p policy.Policy, publisher Publisher, m *metrics.Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:        db,
		policy:    p,
		publisher: publisher,
		metrics:   m,
		tracer:    otel.Tracer("juicepos/sales"),
		logger:    logger,
		now:       time.Now,
		eventID:   uuid.NewString,
	}
}

// RecordSale validates req, commits the sale together with its inventory deduction and
// then publishes SaleRecorded. A returned error means nothing was written.
func (e *Engine) RecordSale(ctx context.Context, req models.SaleRequest) (Receipt, error) {
	ctx, span := e.tracer.Start(ctx, "record_sale")
	defer span.End()
	span.SetAttributes(
		attribute.Int("sale.lines", len(req.Items)),
		attribute.String("sale.payment_mode", string(req.PaymentMode)),
	)

	if err := validateRequest(req); err != nil {
		e.fail(span, err)
		return Receipt{}, err
	}

	sale := models.Sale{
		Date:        e.now().UTC(),
		PaymentMode: req.PaymentMode,
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" {
		sale.Customer = &models.Customer{Phone: phone}
	}

	started := time.Now()
	err := e.db.Update(ctx, func(r records.Repos) error {
		return e.apply(r, req.Items, &sale)
	})
	if e.metrics != nil {
		e.metrics.SaleTxLatencySec.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		err = classify(err)
		e.fail(span, err)
		e.logger.Warn("sale rejected", zap.Error(err), zap.Int("lines", len(req.Items)))
		return Receipt{}, err
	}

	span.SetAttributes(
		attribute.Int64("sale.id", sale.ID),
		attribute.String("sale.total", sale.Total.String()),
	)
	span.SetStatus(codes.Ok, "sale recorded")
	if e.metrics != nil {
		e.metrics.SalesRecorded.Inc()
		e.metrics.Revenue.Add(sale.Total.InexactFloat64())
	}
	e.logger.Info("sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.String("total", sale.Total.String()),
		zap.String("payment_mode", string(sale.PaymentMode)),
	)

	receipt := Receipt{Sale: sale}
	if e.publisher != nil {
		results := e.publisher.PublishSaleRecorded(ctx, models.SaleRecorded{
			EventID:    e.eventID(),
			OccurredAt: sale.Date,
			Sale:       sale,
		})
		receipt.NotificationErr = results.First(models.ErrExternalChannel)
		receipt.HandlerErr = results.Err()
	}
	return receipt, nil
}

// apply runs inside the write transaction.
func (e *Engine) apply(r records.Repos, lines []models.LineRequest, sale *models.Sale) error {
	total := decimal.Zero
	sale.Items = make([]models.SaleLine, 0, len(lines))
	for _, line := range lines {
		p, err := r.Products.Get(line.ProductID)
		if err != nil {
			if models.IsNotFound(err) {
				return fmt.Errorf("%w: %w", models.ErrValidation, err)
			}
			return err
		}
		sl := models.SaleLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Qty:         line.Qty,
			UnitPrice:   p.Price,
		}
		sale.Items = append(sale.Items, sl)
		total = total.Add(sl.Subtotal())
	}
	sale.Total = total

	plan, err := e.plan(r, lines)
	if err != nil {
		return err
	}
	if !e.policy.AllowOversell {
		if err := plan.checkCovered(); err != nil {
			return err
		}
	}

	if err := r.Sales.Append(sale); err != nil {
		return err
	}
	return plan.deduct(r)
}

// plan accumulates the ingredient demand of every line.
func (e *Engine) plan(r records.Repos, lines []models.LineRequest) (*deduction, error) {
	d := newDeduction()
	for _, line := range lines {
		recipe, found, err := e.resolver.Resolve(r, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !found || len(recipe.Ingredients) == 0 {
			if !e.policy.AllowOversell && !e.policy.NoRecipeMeansUnlimited {
				return nil, fmt.Errorf("%w: product %s has no recipe", models.ErrInsufficientStock, line.ProductID)
			}
			continue
		}

		qty := decimal.NewFromInt(line.Qty)
		for _, ing := range recipe.Ingredients {
			if !ing.QtyPerUnit.IsPositive() {
				return nil, models.Validationf("recipe %s: ingredient %s has non-positive qtyPerUnit", recipe.ProductID, ing.InventoryItemID)
			}
			item, ok, err := r.Inventory.Find(ing.InventoryItemID)
			if err != nil {
				return nil, err
			}
			use, err := e.policy.ResolveIngredient(ing, ok)
			if err != nil {
				return nil, err
			}
			if !use {
				e.logger.Debug("skipping missing ingredient",
					zap.String("product_id", line.ProductID),
					zap.String("item_id", ing.InventoryItemID),
				)
				continue
			}
			d.add(item, ing.QtyPerUnit.Mul(qty))
		}
	}
	return d, nil
}

func validateRequest(req models.SaleRequest) error {
	if len(req.Items) == 0 {
		return models.Validationf("sale has no items")
	}
	for i, line := range req.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return models.Validationf("item %d: product id is required", i)
		}
		if line.Qty <= 0 {
			return models.Validationf("item %d (%s): qty must be a positive integer, got %d", i, line.ProductID, line.Qty)
		}
	}
	if !req.PaymentMode.Valid() {
		return models.Validationf("unknown payment mode %q", req.PaymentMode)
	}
	return nil
}

// classify maps a transaction failure to the error taxonomy. Anything the engine did not
// reject on purpose is a storage failure the caller may retry.
func classify(err error) error {
	switch {
	case models.IsValidation(err), models.IsNotFound(err), errors.Is(err, models.ErrStorage):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", models.ErrStorage, err)
	}
}

func (e *Engine) fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if e.metrics != nil {
		e.metrics.SalesFailed.Inc()
	}
}

// ListSales returns the most recent sales, newest first. A non-positive limit returns all.
func (e *Engine) ListSales(ctx context.Context, limit int) ([]models.Sale, error) {
	var out []models.Sale
	err := e.db.View(ctx, func(r records.Repos) error {
		all, err := r.Sales.GetAll()
		if err != nil {
			return err
		}
		out = make([]models.Sale, 0, len(all))
		for i := len(all) - 1; i >= 0; i-- {
			if limit > 0 && len(out) == limit {
				break
			}
			out = append(out, all[i])
		}
		return nil
	})
	return out, err
}
