// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// DefaultProjects returns the example projects created by the "seed projects"
// admin action. A fresh slice is returned on every call.
func DefaultProjects() []Project {
	return []Project{
		{
			Title:       "Build a Mosque",
			Description: "Help us build a mosque in the rural area to provide a place of worship for the community.",
			Category:    CategoryInfrastructure,
			Thumbnail:   "https://images.unsplash.com/photo-1542456073-678082987c69?q=80&w=2788&auto=format&fit=crop",
			Goal:        "50000",
			Raised:      "12500",
		},
		{
			Title:       "Ramadan Food Drive",
			Description: "Providing food packages to families in need during the holy month of Ramadan.",
			Category:    CategoryCharity,
			Thumbnail:   "https://images.unsplash.com/photo-1594901047683-9b1604a11c1d?q=80&w=2835&auto=format&fit=crop",
			Goal:        "10000",
			Raised:      "8500",
		},
		{
			Title:       "Education for All",
			Description: "Sponsoring education for orphans and underprivileged children.",
			Category:    CategoryEducation,
			Thumbnail:   "https://images.unsplash.com/photo-1509062522246-3755977927d7?q=80&w=2604&auto=format&fit=crop",
			Goal:        "25000",
			Raised:      "5000",
		},
	}
}
