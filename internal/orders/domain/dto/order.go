package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AddressInput mirrors the checkout form's repeatable address rows.
type AddressInput struct {
	AddressLine string `json:"addressLine"`
}

// CheckoutForm carries the shipping-address fields collected by the
// checkout views.
type CheckoutForm struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Gender    string         `json:"gender"`
	Addresses []AddressInput `json:"addresses"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	PinCode   string         `json:"pin_code"`
	Phone     string         `json:"phone"`
}

// FlatAddress joins the address rows into the single column the orders
// table stores.
func (f CheckoutForm) FlatAddress() string {
	lines := make([]string, 0, len(f.Addresses))
	for _, a := range f.Addresses {
		if a.AddressLine != "" {
			lines = append(lines, a.AddressLine)
		}
	}
	return strings.Join(lines, " | ")
}

type PlaceOrderRequest struct {
	PaymentMethod   string       `json:"payment_method"`
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
	Form            CheckoutForm `json:"form"`
}

type PlaceOrderResponse struct {
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

type UpdateStatusRequest struct {
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by,omitempty"`
}
