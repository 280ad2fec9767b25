// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content entities persisted in the document store.
// JSON tags are the field names used on the wire and in the stored documents.
package model

// Collection names in the document store.
const (
	CollectionHero       = "hero_content"
	CollectionGallery    = "gallery"
	CollectionProjects   = "projects"
	CollectionCarousel   = "hero_carousel"
	CollectionVolunteers = "volunteers"
	CollectionDonors     = "donors"
)

// HeroDocumentID is the fixed key of the hero content singleton.
const HeroDocumentID = "main"

// HeroContent is the landing page hero block. There is exactly one.
type HeroContent struct {
	Title       string    `json:"heroTitle"`
	Subtitle    string    `json:"heroSubtitle"`
	Description string    `json:"heroDescription"`
	MediaURL    string    `json:"heroMediaUrl"`
	MediaType   MediaType `json:"heroMediaType"`
}

// HeroPatch is a partial update of HeroContent. Nil fields are left unchanged.
type HeroPatch struct {
	Title       *string    `json:"heroTitle,omitempty"`
	Subtitle    *string    `json:"heroSubtitle,omitempty"`
	Description *string    `json:"heroDescription,omitempty"`
	MediaURL    *string    `json:"heroMediaUrl,omitempty"`
	MediaType   *MediaType `json:"heroMediaType,omitempty"`
}

// GalleryItem is one image or video in the public gallery.
type GalleryItem struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail"`
}

// GalleryPatch is a partial update of a GalleryItem.
type GalleryPatch struct {
	Title     *string    `json:"title,omitempty"`
	Category  *string    `json:"category,omitempty"`
	Type      *MediaType `json:"type,omitempty"`
	URL       *string    `json:"url,omitempty"`
	Thumbnail *string    `json:"thumbnail,omitempty"`
}

// ProjectCategory groups fundraising projects.
type ProjectCategory string

// Project categories offered by the admin panel.
const (
	CategoryInfrastructure ProjectCategory = "Infrastructure"
	CategoryCharity        ProjectCategory = "Charity"
	CategoryEducation      ProjectCategory = "Education"
	CategoryHealth         ProjectCategory = "Health"
	CategoryGeneral        ProjectCategory = "General"
)

// ProjectCategories lists the categories in display order.
var ProjectCategories = []ProjectCategory{
	CategoryInfrastructure,
	CategoryCharity,
	CategoryEducation,
	CategoryHealth,
	CategoryGeneral,
}

// Project is a fundraising project. Goal and Raised are decimal amounts kept
// as text; they are parsed only for display.
type Project struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    ProjectCategory `json:"category"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Goal        string          `json:"goal"`
	Raised      string          `json:"raised"`
}

// ProjectPatch is a partial update of a Project.
type ProjectPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *ProjectCategory `json:"category,omitempty"`
	Thumbnail   *string          `json:"thumbnail,omitempty"`
	Goal        *string          `json:"goal,omitempty"`
	Raised      *string          `json:"raised,omitempty"`
}

// CarouselItem is one slide of the hero carousel. Slides have no stored rank;
// they are shown in fetch order.
type CarouselItem struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	MediaURL  string    `json:"mediaUrl"`
	MediaType MediaType `json:"mediaType"`
}

// CarouselPatch is a partial update of a CarouselItem.
type CarouselPatch struct {
	Title     *string    `json:"title,omitempty"`
	Detail    *string    `json:"detail,omitempty"`
	MediaURL  *string    `json:"mediaUrl,omitempty"`
	MediaType *MediaType `json:"mediaType,omitempty"`
}
