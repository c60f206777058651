// Package pricing derives product prices from ingredient cost and markup.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/domain/policy"
	"github.com/mamadbah2/juicepos/internal/metrics"
	"github.com/mamadbah2/juicepos/internal/repository/records"
	"github.com/mamadbah2/juicepos/internal/service/inventory"
)

// Config holds the pricing knobs.
type Config struct {
	// DefaultMarkup applies to products without their own markup.
	DefaultMarkup decimal.Decimal
	// RoundingUnit is the step prices are rounded up to.
	RoundingUnit decimal.Decimal
}

// DefaultConfig returns a 30% markup rounded up to the next 5.
func DefaultConfig() Config {
	return Config{
		DefaultMarkup: decimal.RequireFromString("0.3"),
		RoundingUnit:  decimal.NewFromInt(5),
	}
}

// PriceQuote is the result of a cost computation.
type PriceQuote struct {
	ProductID string          `json:"productId"`
	Cost      decimal.Decimal `json:"cost"`
	Markup    decimal.Decimal `json:"markup"`
	NewPrice  decimal.Decimal `json:"newPrice"`
}

// Engine recalculates prices.
type Engine struct {
	db       *records.DB
	cfg      Config
	policy   policy.Policy
	resolver inventory.Resolver
	metrics  *metrics.Registry
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewEngine wires a pricing engine. m may be nil.
func NewEngine(db *records.DB, cfg Config, p policy.Policy, m *metrics.Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.RoundingUnit.IsPositive() {
		cfg.RoundingUnit = DefaultConfig().RoundingUnit
	}
	return &Engine{
		db:      db,
		cfg:     cfg,
		policy:  p,
		metrics: m,
		tracer:  otel.Tracer("juicepos/pricing"),
		logger:  logger,
	}
}

// RoundUp rounds v up to the next multiple of unit.
func RoundUp(v, unit decimal.Decimal) decimal.Decimal {
	return v.Div(unit).Ceil().Mul(unit)
}

// RecalcPrice computes the product's cost from current ingredient costs, applies its markup
// and stores the new price and cost on the product.
func (e *Engine) RecalcPrice(ctx context.Context, productID string) (PriceQuote, error) {
	ctx, span := e.tracer.Start(ctx, "recalc_price")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	var quote PriceQuote
	err := e.db.Update(ctx, func(r records.Repos) error {
		p, err := r.Products.Get(productID)
		if err != nil {
			return err
		}
		quote, err = e.quote(r, p)
		if err != nil {
			return err
		}
		p.Price = quote.NewPrice
		p.LastCost = decimal.NewNullDecimal(quote.Cost)
		return r.Products.Put(p)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return PriceQuote{}, fmt.Errorf("recalc price of %s: %w", productID, err)
	}

	span.SetAttributes(
		attribute.String("product.cost", quote.Cost.String()),
		attribute.String("product.price", quote.NewPrice.String()),
	)
	span.SetStatus(codes.Ok, "price updated")
	if e.metrics != nil {
		e.metrics.Reprices.Inc()
	}
	e.logger.Info("price recalculated",
		zap.String("product_id", productID),
		zap.String("cost", quote.Cost.String()),
		zap.String("new_price", quote.NewPrice.String()),
	)
	return quote, nil
}

// PreviewCost returns the quote RecalcPrice would apply, without writing anything.
func (e *Engine) PreviewCost(ctx context.Context, productID string) (PriceQuote, error) {
	var quote PriceQuote
	err := e.db.View(ctx, func(r records.Repos) error {
		p, err := r.Products.Get(productID)
		if err != nil {
			return err
		}
		quote, err = e.quote(r, p)
		return err
	})
	return quote, err
}

func (e *Engine) quote(r records.Repos, p models.Product) (PriceQuote, error) {
	recipe, found, err := e.resolver.Resolve(r, p.ID)
	if err != nil {
		return PriceQuote{}, err
	}
	if !found && !e.policy.RepriceWithoutRecipe {
		return PriceQuote{}, models.ErrNoRecipe
	}

	cost := decimal.Zero
	for _, ing := range recipe.Ingredients {
		item, ok, err := r.Inventory.Find(ing.InventoryItemID)
		if err != nil {
			return PriceQuote{}, err
		}
		use, err := e.policy.ResolveIngredient(ing, ok)
		if err != nil {
			return PriceQuote{}, err
		}
		if use {
			cost = cost.Add(item.CostPerUnit.Mul(ing.QtyPerUnit))
		}
	}

	markup := p.EffectiveMarkup(e.cfg.DefaultMarkup)
	raw := cost.Mul(decimal.NewFromInt(1).Add(markup))
	return PriceQuote{
		ProductID: p.ID,
		Cost:      cost,
		Markup:    markup,
		NewPrice:  RoundUp(raw, e.cfg.RoundingUnit),
	}, nil
}
