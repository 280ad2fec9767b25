// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestMediaTypeFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaType
	}{
		{MimeTypeMP4, MediaTypeVideo},
		{MimeTypeWebM, MediaTypeVideo},
		{"VIDEO/MP4", MediaTypeVideo},
		{MimeTypeJPEG, MediaTypeImage},
		{MimeTypePNG, MediaTypeImage},
		{"", MediaTypeImage},
		{"application/octet-stream", MediaTypeImage},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := MediaTypeFromContentType(tt.contentType); got != tt.want {
				t.Errorf("MediaTypeFromContentType(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestDefaultProjects(t *testing.T) {
	projects := DefaultProjects()
	if len(projects) != 3 {
		t.Fatalf("len(DefaultProjects()) = %d, want 3", len(projects))
	}

	want := []struct {
		title    string
		category ProjectCategory
		goal     string
		raised   string
	}{
		{"Build a Mosque", CategoryInfrastructure, "50000", "12500"},
		{"Ramadan Food Drive", CategoryCharity, "10000", "8500"},
		{"Education for All", CategoryEducation, "25000", "5000"},
	}
	for i, w := range want {
		p := projects[i]
		if p.Title != w.title || p.Category != w.category || p.Goal != w.goal || p.Raised != w.raised {
			t.Errorf("project %d = %+v, want %+v", i, p, w)
		}
		if p.ID != "" {
			t.Errorf("project %d has id %q before creation", i, p.ID)
		}
	}

	// Callers may mutate the result freely.
	projects[0].Title = "changed"
	if DefaultProjects()[0].Title != "Build a Mosque" {
		t.Error("DefaultProjects returned shared state")
	}
}

func TestPatchOmitsNilFields(t *testing.T) {
	title := "New title"
	empty := ""
	patch := ProjectPatch{Title: &title, Thumbnail: &empty}

	data, err := json.Marshal(patch)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("fields = %v, want title and thumbnail only", fields)
	}
	if fields["title"] != "New title" {
		t.Errorf("title = %v", fields["title"])
	}
	if v, ok := fields["thumbnail"]; !ok || v != "" {
		t.Errorf("explicit empty thumbnail must be sent, got %v (present=%v)", v, ok)
	}
}

func TestDonorProjectOrDefault(t *testing.T) {
	if got := (Donor{}).ProjectOrDefault(); got != DefaultDonorProject {
		t.Errorf("ProjectOrDefault() = %q, want %q", got, DefaultDonorProject)
	}
	if got := (Donor{Project: "Ramadan Food Drive"}).ProjectOrDefault(); got != "Ramadan Food Drive" {
		t.Errorf("ProjectOrDefault() = %q", got)
	}
}

func TestHeroContentWireNames(t *testing.T) {
	data, err := json.Marshal(HeroContent{Title: "t", MediaType: MediaTypeVideo})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fields map[string]any
	_ = json.Unmarshal(data, &fields)
	for _, key := range []string{"heroTitle", "heroSubtitle", "heroDescription", "heroMediaUrl", "heroMediaType"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing wire field %q in %s", key, data)
		}
	}
}
