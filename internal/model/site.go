// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Sector is one of the organisation's fields of work.
type Sector struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Programs    []string `json:"programs"`
}

// Location is a physical site run by the organisation.
type Location struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// BankAccount is an account that accepts direct transfers.
type BankAccount struct {
	Bank string `json:"bank"`
	Name string `json:"name"`
	IBAN string `json:"iban"`
}

// SiteInfo is the static informational content of the public site.
type SiteInfo struct {
	Sectors       []Sector      `json:"sectors"`
	Locations     []Location    `json:"locations"`
	BankAccounts  []BankAccount `json:"bankAccounts"`
	ContactEmail  string        `json:"contactEmail"`
	ContactPhones []string      `json:"contactPhones"`
}

// DefaultSiteInfo returns the organisation's published details.
func DefaultSiteInfo() SiteInfo {
	return SiteInfo{
		Sectors: []Sector{
			{
				ID:          "charity",
				Name:        "Charity",
				Description: "We believe service to humanity is an essential part of faith. Our charitable initiatives focus on supporting the most vulnerable members of society.",
				Icon:        "🤝",
				Programs: []string{
					"Yearly Ramadan Feeding Project",
					"Eid Qurbani Program",
					"Widows Support Group",
					"Masjid and Madarasa Development",
					"Orphanages Support",
				},
			},
			{
				ID:          "education",
				Name:        "Education",
				Description: "Education is at the heart of Digital Islam. We provide accessible and engaging Islamic learning for all age groups.",
				Icon:        "📚",
				Programs: []string{
					"Islamic Magazine Publication",
					"Weekly After Jummah Podcast",
					"Structured Madarasa Programs",
					"Youth Workshops",
				},
			},
			{
				ID:          "entertainment",
				Name:        "Entertainment",
				Description: "We promote halal and value-driven entertainment that nurtures faith and creativity.",
				Icon:        "🎭",
				Programs: []string{
					"Quranic Recitation Showcases",
					"Poetry & Anasheed Platforms",
					"Inspirational Newsletters",
					"Faith-based Creative Arts",
				},
			},
			{
				ID:          "ambassadorial",
				Name:        "Ambassadorial",
				Description: "Our Youth Ambassador Program empowers young leaders to represent Digital Islam and promote positive Islamic values.",
				Icon:        "🌍",
				Programs: []string{
					"Active in 200+ Communities",
					"Community Advocacy",
					"Leadership Development",
					"Youth Mentorship",
				},
			},
		},
		Locations: []Location{
			{Type: "Office Address", Address: "8 Stewards Street, Off Kroo Town Road"},
			{Type: "Masjid & Madarasa", Address: "1 Cole Drive, Wilberforce"},
			{Type: "Orphanage (1)", Address: "6 Mile, Waterloo"},
			{Type: "Orphanage (2)", Address: "Samaya Village, Tambaka Chiefdom"},
		},
		BankAccounts: []BankAccount{
			{Bank: "Sierra Leone Commercial Bank (SLCB)", Name: "Digital Islam", IBAN: "003001148417112146"},
			{Bank: "Zenith Bank", Name: "Digital Islam", IBAN: "012001407015268795"},
		},
		ContactEmail:  "digitalislamsl@gmail.com",
		ContactPhones: []string{"+232 079 447 730", "+232 030 135 412"},
	}
}
