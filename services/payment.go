package services

import (
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// PaymentGateway creates card payment intents. Stripe sits behind this
// interface so tests can swap it out, like Mailer.
type PaymentGateway interface {
	CreateIntent(amount int64, currency string) (clientSecret string, err error)
}

// StripeGateway is the live implementation. PublicKey is handed to the
// frontend; the secret key stays inside the stripe client.
type StripeGateway struct {
	PublicKey string
}

func NewStripeGateway(secretKey, publicKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{PublicKey: publicKey}
}

// CreateIntent registers a card payment for the given amount in the
// currency's smallest unit and returns the client secret the frontend
// needs to confirm it.
func (g *StripeGateway) CreateIntent(amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
