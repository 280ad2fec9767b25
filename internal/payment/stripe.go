// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Stripe creates Checkout Sessions in payment mode.
type Stripe struct {
	api      *client.API
	currency string
	newKey   func() string
}

// NewStripe creates a Stripe provider authenticated with secretKey.
func NewStripe(secretKey, currency string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Stripe{api: api, currency: strings.ToLower(currency), newKey: uuid.NewString}
}

func (s *Stripe) params(ctx context.Context, req CheckoutRequest, key string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.currency),
				UnitAmount: stripe.Int64(req.Amount.MinorUnits()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Donation - " + req.Project),
				},
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("customer_name", req.Name)
	params.AddMetadata("customer_email", req.Email)
	params.AddMetadata("customer_phone", req.Phone)
	params.AddMetadata("project", req.Project)
	params.SetIdempotencyKey(key)
	return params
}

// CreateCheckoutSession implements Provider.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	key := s.newKey()
	sess, err := s.api.CheckoutSessions.New(s.params(ctx, req, key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("%w: checkout session has no URL", ErrProvider)
	}

	return &CheckoutSession{ID: sess.ID, RedirectURL: sess.URL, IdempotencyKey: key}, nil
}
