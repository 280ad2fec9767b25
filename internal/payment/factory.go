// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import (
	"errors"
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderNone   = "none"
	ProviderMonime = "monime"
	ProviderStripe = "stripe"
)

// Config selects and configures a payment provider.
type Config struct {
	Provider     string
	Monime       MonimeConfig
	StripeSecret string
	Currency     string
}

// New creates the provider selected by cfg.Provider.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return Disabled{}, nil
	case ProviderMonime:
		if cfg.Monime.Token == "" || cfg.Monime.SpaceID == "" {
			return nil, errors.New("monime requires a token and space id")
		}
		m := cfg.Monime
		if m.Currency == "" {
			m.Currency = cfg.Currency
		}
		return NewMonime(m), nil
	case ProviderStripe:
		if cfg.StripeSecret == "" {
			return nil, errors.New("stripe requires a secret key")
		}
		return NewStripe(cfg.StripeSecret, cfg.Currency), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
