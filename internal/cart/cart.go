// Package cart holds the per-session shopping state: three independent
// itemized collections (shopping, food, grocery) with merge-or-append
// add semantics and snapshot persistence after every mutation.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Vertical is one of the three independent product domains. Each has
// its own cart collection and fee schedule.
type Vertical string

const (
	Shopping Vertical = "shopping"
	Food     Vertical = "food"
	Grocery  Vertical = "grocery"
)

// Verticals lists all cart collections in display order.
var Verticals = []Vertical{Shopping, Food, Grocery}

// ParseVertical validates a vertical tag from the wire.
func ParseVertical(s string) (Vertical, error) {
	switch Vertical(s) {
	case Shopping, Food, Grocery:
		return Vertical(s), nil
	}
	return "", fmt.Errorf("unknown vertical %q", s)
}

// Item is one line entry in a cart collection. ID is the merge key and
// is unique within its collection. Kind is set once at add time and
// never changes. Quantity is always >= 1; removal is a distinct
// operation, never a side effect of a quantity change.
type Item struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Veg         bool            `json:"veg,omitempty"` // food items only
	Kind        Vertical        `json:"kind"`
	Quantity    int             `json:"quantity"`
}

// collection keeps insertion order for display; order never affects
// pricing. Lookups are linear, carts stay small.
type collection []Item

func (c collection) index(id int) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c collection) count() int {
	n := 0
	for i := range c {
		n += c[i].Quantity
	}
	return n
}

func (c collection) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range c {
		sum = sum.Add(c[i].Price.Mul(decimal.NewFromInt(int64(c[i].Quantity))))
	}
	return sum
}
