// Package pricing derives checkout surcharges from a cart subtotal.
// Every vertical shares one shape: a flat handling charge whenever the
// cart is non-empty plus a tiered delivery charge that falls to zero
// above a free-delivery threshold.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-system/internal/cart"
)

// Tier maps subtotals below (or through, when Inclusive) Limit to Charge.
type Tier struct {
	Limit     decimal.Decimal
	Inclusive bool
	Charge    decimal.Decimal
}

// Schedule is a vertical's fee table.
type Schedule struct {
	// HandlingCharge applies whenever the subtotal is positive.
	// Shown as "shipping" for shopping/food and "packaging" for grocery.
	HandlingCharge decimal.Decimal
	// DeliveryTiers are checked in order; subtotals above the last
	// tier get free delivery.
	DeliveryTiers []Tier
}

// Breakdown is recomputed on every read, never stored.
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	HandlingCharge decimal.Decimal `json:"handling_charge"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

var (
	retailSchedule = Schedule{
		HandlingCharge: decimal.NewFromInt(30),
		DeliveryTiers: []Tier{
			{Limit: decimal.NewFromInt(500), Charge: decimal.NewFromInt(40)},
			{Limit: decimal.NewFromInt(1000), Inclusive: true, Charge: decimal.NewFromInt(35)},
		},
	}
	grocerySchedule = Schedule{
		HandlingCharge: decimal.NewFromInt(20),
		DeliveryTiers: []Tier{
			{Limit: decimal.NewFromInt(799), Charge: decimal.NewFromInt(50)},
		},
	}
)

// ScheduleFor returns the fee table for a vertical.
// Shopping and food share one table, grocery has its own.
func ScheduleFor(v cart.Vertical) Schedule {
	if v == cart.Grocery {
		return grocerySchedule
	}
	return retailSchedule
}

// Compute derives the payable breakdown for a subtotal. Pure function:
// an empty cart yields zero charges and a zero grand total.
func Compute(subtotal decimal.Decimal, v cart.Vertical) Breakdown {
	return ScheduleFor(v).Compute(subtotal)
}

func (s Schedule) Compute(subtotal decimal.Decimal) Breakdown {
	b := Breakdown{
		Subtotal:       subtotal,
		HandlingCharge: decimal.Zero,
		DeliveryCharge: decimal.Zero,
		GrandTotal:     subtotal,
	}
	if subtotal.Sign() <= 0 {
		return b
	}

	b.HandlingCharge = s.HandlingCharge
	for _, t := range s.DeliveryTiers {
		cmp := subtotal.Cmp(t.Limit)
		if cmp < 0 || (t.Inclusive && cmp == 0) {
			b.DeliveryCharge = t.Charge
			break
		}
	}
	b.GrandTotal = subtotal.Add(b.HandlingCharge).Add(b.DeliveryCharge)
	return b
}

// MinorUnits scales a major-unit amount to the payment provider's
// minor-unit convention (rupees to paise).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
