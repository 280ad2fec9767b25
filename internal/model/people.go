// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// DefaultDonorProject is recorded when a donor does not pick a project.
const DefaultDonorProject = "General"

// Volunteer is a volunteer signup submitted from the public site.
type Volunteer struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
}

// Donor is a pledge record written before the payer is sent to checkout.
// It is never reconciled with the payment outcome.
type Donor struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
	Location   string `json:"location"`
	Project    string `json:"project,omitempty"`
	Pledge     string `json:"pledge"`
}

// ProjectOrDefault returns the donor's project, or DefaultDonorProject when unset.
func (d Donor) ProjectOrDefault() string {
	if d.Project == "" {
		return DefaultDonorProject
	}
	return d.Project
}
