// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package payment creates hosted checkout sessions for donations.
//
// A checkout session is created once per pledge and the payer's browser is
// redirected to it. Payment outcomes are not reconciled with donor records.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Payment errors.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrProvider      = errors.New("payment provider error")
	ErrNotConfigured = errors.New("payments not configured")
)

// Amount is a positive decimal amount in major currency units.
type Amount struct {
	r *big.Rat
}

// ParseAmount extracts an amount from user input. Everything except digits
// and dots is dropped, then the longest leading decimal number is used, so
// "SLE 1,250.50" parses as 1250.50. Amounts that are empty or not positive
// yield ErrInvalidAmount.
func ParseAmount(text string) (Amount, error) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s := leadingDecimal(b.String())
	if s == "" {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || r.Sign() <= 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return Amount{r: r}, nil
}

func leadingDecimal(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if j := strings.IndexByte(s[i+1:], '.'); j >= 0 {
			s = s[:i+1+j]
		}
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return s
}

// MustAmount parses a literal amount and panics on failure.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the zero value.
func (a Amount) IsZero() bool {
	return a.r == nil
}

// String formats a with two decimals.
func (a Amount) String() string {
	if a.r == nil {
		return "0.00"
	}
	return a.r.FloatString(2)
}

// MinorUnits converts a to hundredths, rounding half away from zero:
// 50.00 is 5000, 0.005 is 1 and 0.004 is 0.
func (a Amount) MinorUnits() int64 {
	if a.r == nil {
		return 0
	}
	scaled := new(big.Rat).Mul(a.r, big.NewRat(100, 1))

	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()
	// floor((2*num + den) / (2*den)) is num/den rounded half up.
	twice := new(big.Int).Mul(num, big.NewInt(2))
	q := new(big.Int).Quo(twice.Add(twice, den), new(big.Int).Mul(den, big.NewInt(2)))
	if scaled.Sign() < 0 {
		q.Neg(q)
	}
	return q.Int64()
}

// CheckoutRequest describes one donation checkout.
type CheckoutRequest struct {
	Amount  Amount
	Name    string
	Email   string
	Phone   string
	Project string

	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a created hosted checkout.
type CheckoutSession struct {
	ID             string
	RedirectURL    string
	IdempotencyKey string
}

// Provider creates hosted checkout sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// Disabled rejects every checkout with ErrNotConfigured.
type Disabled struct{}

// CreateCheckoutSession implements Provider.
func (Disabled) CreateCheckoutSession(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrNotConfigured
}

func validate(req CheckoutRequest) error {
	if req.Amount.IsZero() || req.Amount.MinorUnits() <= 0 {
		return fmt.Errorf("%w: amount rounds to zero", ErrInvalidAmount)
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return errors.New("checkout requires success and cancel URLs")
	}
	return nil
}
