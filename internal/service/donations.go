// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the public site actions built on the data
// store: donation pledges, volunteer signups and reflections.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digitalislam/dicms/internal/model"
	"github.com/digitalislam/dicms/internal/payment"
)

// DonorCreator persists donor records.
type DonorCreator interface {
	Create(ctx context.Context, d model.Donor) (model.Donor, error)
}

// CheckoutURLs are where the payment provider sends the payer afterwards.
type CheckoutURLs struct {
	Success string
	Cancel  string
}

// Donations records pledges and starts their hosted checkout.
type Donations struct {
	donors   DonorCreator
	payments payment.Provider
	urls     CheckoutURLs
	logger   *slog.Logger
}

// NewDonations creates the donation service.
func NewDonations(donors DonorCreator, payments payment.Provider, urls CheckoutURLs, logger *slog.Logger) *Donations {
	if logger == nil {
		logger = slog.Default()
	}
	return &Donations{donors: donors, payments: payments, urls: urls, logger: logger}
}

// PledgeResult is a saved donor and the checkout page to redirect to.
type PledgeResult struct {
	Donor       model.Donor `json:"donor"`
	RedirectURL string      `json:"redirectUrl"`
}

// Pledge validates the pledged amount, saves the donor and creates a
// checkout session. The donor record is saved first and stays saved if
// checkout fails or is abandoned.
func (d *Donations) Pledge(ctx context.Context, form model.Donor) (*PledgeResult, error) {
	amount, err := payment.ParseAmount(form.Pledge)
	if err != nil {
		return nil, err
	}
	form.ID = ""
	form.Project = form.ProjectOrDefault()

	donor, err := d.donors.Create(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("saving donor: %w", err)
	}

	sess, err := d.payments.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Amount:     amount,
		Name:       donor.Name,
		Email:      donor.Email,
		Phone:      donor.Phone,
		Project:    donor.Project,
		SuccessURL: d.urls.Success,
		CancelURL:  d.urls.Cancel,
	})
	if err != nil {
		d.logger.Error("checkout failed for saved donor", "donor_id", donor.ID, "error", err)
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	d.logger.Info("donation checkout created",
		"donor_id", donor.ID,
		"project", donor.Project,
		"amount", amount.String(),
		"session_id", sess.ID,
	)
	return &PledgeResult{Donor: donor, RedirectURL: sess.RedirectURL}, nil
}
