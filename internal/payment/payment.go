// Package payment wraps the card payment collaborator. Amounts cross
// this boundary in minor currency units only.
package payment

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAmount rejects zero or negative charges before any
	// provider call is made.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrNotSucceeded marks an intent that has not completed payment.
	ErrNotSucceeded = errors.New("payment not completed")
)

// Intent is the provider-side payment handle for one checkout attempt.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Succeeded    bool
}

// Provider creates and inspects payment intents.
type Provider interface {
	CreateIntent(ctx context.Context, amountMinor int64, description string) (Intent, error)
	GetIntent(ctx context.Context, id string) (Intent, error)
}
