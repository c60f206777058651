package models

import "github.com/shopspring/decimal"

// Product is a sellable catalog entry.
type Product struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Price    decimal.Decimal     `json:"price"`
	Markup   decimal.NullDecimal `json:"markup"`
	LastCost decimal.NullDecimal `json:"lastCost"`
	Image    string              `json:"image,omitempty"`
}

// EffectiveMarkup returns the stored markup or fallback when the product has none.
func (p Product) EffectiveMarkup(fallback decimal.Decimal) decimal.Decimal {
	if p.Markup.Valid {
		return p.Markup.Decimal
	}
	return fallback
}

// ProductView decorates a product with its current sellable availability.
type ProductView struct {
	Product
	Availability Availability `json:"availability"`
}

// ProductUpdate carries the editable product fields. Nil fields are left untouched.
type ProductUpdate struct {
	Name   *string          `json:"name"`
	Price  *decimal.Decimal `json:"price"`
	Markup *decimal.Decimal `json:"markup"`
	Image  *string          `json:"image"`
}
