// Package payment issues payment-processor intents. The gateway returns
// an opaque client secret that the caller's client uses to complete the
// payment out-of-band; nothing here touches core entities.
package payment

import (
	"context"
	"math"
	"strconv"
	"strings"

	"real-estate-marketplace/internal/apperr"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// Gateway obtains a client secret for a quoted amount in minor currency
// units.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64) (string, error)
}

// AmountMinorFromPrice converts a decimal price string to minor currency
// units. An absent price or one that rounds below one minor unit is
// InvalidArgument.
func AmountMinorFromPrice(price string) (int64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, apperr.E(apperr.KindInvalidArgument, "price is required")
	}

	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, apperr.E(apperr.KindInvalidArgument, "price must be a decimal number")
	}
	// Out-of-range float to int conversion saturates differently per
	// architecture, so bound the value before converting.
	if math.IsNaN(value) || math.IsInf(value, 0) || value > math.MaxInt64/100 {
		return 0, apperr.E(apperr.KindInvalidArgument, "price is out of range")
	}

	minor := int64(math.Round(value * 100))
	if minor < 1 {
		return 0, apperr.E(apperr.KindInvalidArgument, "price must be at least one minor currency unit")
	}
	return minor, nil
}

// StripeGateway is the production Gateway backed by Stripe payment
// intents with automatic payment-method negotiation.
type StripeGateway struct {
	currency string
}

func NewStripeGateway(apiKey, currency string) *StripeGateway {
	stripe.Key = apiKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{currency: currency}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountMinor int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "payment gateway error", err)
	}
	return intent.ClientSecret, nil
}
