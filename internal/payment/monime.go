// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Monime defaults.
const (
	DefaultMonimeBaseURL = "https://api.monime.io/v1"
	DefaultMonimeVersion = "caph.2025-08-23"
	DefaultCurrency      = "SLE"

	// MaxResponseLen caps how much of a provider response is read.
	MaxResponseLen = 64 << 10
)

// MonimeConfig configures the Monime client.
type MonimeConfig struct {
	BaseURL  string
	Token    string
	SpaceID  string
	Version  string
	Currency string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
}

// Monime creates checkout sessions with the Monime API.
type Monime struct {
	cfg    MonimeConfig
	client *http.Client
	newKey func() string
}

// NewMonime creates a Monime client, filling in defaults.
func NewMonime(cfg MonimeConfig) *Monime {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMonimeBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Version == "" {
		cfg.Version = DefaultMonimeVersion
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Monime{cfg: cfg, client: client, newKey: uuid.NewString}
}

type monimePrice struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

type monimeLineItem struct {
	Type     string      `json:"type"`
	Name     string      `json:"name"`
	Price    monimePrice `json:"price"`
	Quantity int         `json:"quantity"`
}

type monimeOption struct {
	Disable bool `json:"disable"`
}

type monimeRequest struct {
	Name           string                  `json:"name"`
	LineItems      []monimeLineItem        `json:"lineItems"`
	PaymentOptions map[string]monimeOption `json:"paymentOptions"`
	CancelURL      string                  `json:"cancelUrl"`
	SuccessURL     string                  `json:"successUrl"`
	Metadata       map[string]string       `json:"metadata"`
}

type monimeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  *struct {
		ID          string `json:"id"`
		RedirectURL string `json:"redirectUrl"`
	} `json:"result"`
}

func (m *Monime) payload(req CheckoutRequest) monimeRequest {
	return monimeRequest{
		Name: "Donation from " + req.Name,
		LineItems: []monimeLineItem{{
			Type: "custom",
			Name: "Donation - " + req.Project,
			Price: monimePrice{
				Currency: m.cfg.Currency,
				Value:    req.Amount.MinorUnits(),
			},
			Quantity: 1,
		}},
		PaymentOptions: map[string]monimeOption{
			"bank": {Disable: false},
			"momo": {Disable: false},
			"card": {Disable: false},
		},
		CancelURL:  req.CancelURL,
		SuccessURL: req.SuccessURL,
		Metadata: map[string]string{
			"customer_name":  req.Name,
			"customer_email": req.Email,
			"customer_phone": req.Phone,
			"project":        req.Project,
		},
	}
}

// CreateCheckoutSession implements Provider.
func (m *Monime) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(m.payload(req))
	if err != nil {
		return nil, fmt.Errorf("encoding checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/checkout-sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	key := m.newKey()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+m.cfg.Token)
	httpReq.Header.Set("Monime-Space-Id", m.cfg.SpaceID)
	httpReq.Header.Set("Idempotency-Key", key)
	httpReq.Header.Set("Monime-Version", m.cfg.Version)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))

	var decoded monimeResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := decoded.Message
		if decodeErr != nil || msg == "" {
			msg = "failed to create checkout session"
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrProvider, resp.StatusCode, msg)
	}
	if decodeErr != nil || !decoded.Success || decoded.Result == nil || decoded.Result.RedirectURL == "" {
		return nil, fmt.Errorf("%w: invalid response from payment provider", ErrProvider)
	}

	return &CheckoutSession{
		ID:             decoded.Result.ID,
		RedirectURL:    decoded.Result.RedirectURL,
		IdempotencyKey: key,
	}, nil
}
