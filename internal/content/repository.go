// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content translates between entities and document store calls.
//
// Every method performs exactly one remote call and returns store errors
// unchanged. There is no caching and no retrying at this layer.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/digitalislam/dicms/internal/docstore"
	"github.com/digitalislam/dicms/internal/model"
)

// Kind describes how entities of one type are stored.
type Kind[E any] struct {
	Collection string
	ID         func(E) string
	WithID     func(E, string) E
}

// Kinds of the id-keyed collections.
var (
	GalleryKind = Kind[model.GalleryItem]{
		Collection: model.CollectionGallery,
		ID:         func(e model.GalleryItem) string { return e.ID },
		WithID:     func(e model.GalleryItem, id string) model.GalleryItem { e.ID = id; return e },
	}
	ProjectKind = Kind[model.Project]{
		Collection: model.CollectionProjects,
		ID:         func(e model.Project) string { return e.ID },
		WithID:     func(e model.Project, id string) model.Project { e.ID = id; return e },
	}
	CarouselKind = Kind[model.CarouselItem]{
		Collection: model.CollectionCarousel,
		ID:         func(e model.CarouselItem) string { return e.ID },
		WithID:     func(e model.CarouselItem, id string) model.CarouselItem { e.ID = id; return e },
	}
	VolunteerKind = Kind[model.Volunteer]{
		Collection: model.CollectionVolunteers,
		ID:         func(e model.Volunteer) string { return e.ID },
		WithID:     func(e model.Volunteer, id string) model.Volunteer { e.ID = id; return e },
	}
	DonorKind = Kind[model.Donor]{
		Collection: model.CollectionDonors,
		ID:         func(e model.Donor) string { return e.ID },
		WithID:     func(e model.Donor, id string) model.Donor { e.ID = id; return e },
	}
)

// Repository accesses one id-keyed collection. P is the partial update type.
type Repository[E, P any] struct {
	store docstore.Store
	kind  Kind[E]
}

// NewRepository creates a repository for kind on store.
func NewRepository[E, P any](store docstore.Store, kind Kind[E]) *Repository[E, P] {
	return &Repository[E, P]{store: store, kind: kind}
}

// Kind returns the repository's entity descriptor.
func (r *Repository[E, P]) Kind() Kind[E] {
	return r.kind
}

// FetchAll returns every entity in the collection in store order.
func (r *Repository[E, P]) FetchAll(ctx context.Context) ([]E, error) {
	docs, err := r.store.FetchAll(ctx, r.kind.Collection)
	if err != nil {
		return nil, err
	}

	items := make([]E, 0, len(docs))
	for _, doc := range docs {
		e, err := DecodeFields[E](doc.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", r.kind.Collection, doc.ID, err)
		}
		items = append(items, r.kind.WithID(e, doc.ID))
	}
	return items, nil
}

// Create stores item without its identifier and returns it with the
// identifier assigned by the store.
func (r *Repository[E, P]) Create(ctx context.Context, item E) (E, error) {
	fields, err := EncodeFields(item)
	if err != nil {
		return item, err
	}
	id, err := r.store.Create(ctx, r.kind.Collection, fields)
	if err != nil {
		return item, err
	}
	return r.kind.WithID(item, id), nil
}

// Update sends the fields present in patch.
func (r *Repository[E, P]) Update(ctx context.Context, id string, patch P) error {
	fields, err := EncodeFields(patch)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, r.kind.Collection, id, fields)
}

// Delete removes the entity with id.
func (r *Repository[E, P]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.kind.Collection, id)
}

// HeroRepository accesses the hero content singleton document.
type HeroRepository struct {
	store docstore.Store
}

// NewHeroRepository creates a hero repository on store.
func NewHeroRepository(store docstore.Store) *HeroRepository {
	return &HeroRepository{store: store}
}

// Get returns the hero content. A missing document yields the zero value
// and false.
func (h *HeroRepository) Get(ctx context.Context) (model.HeroContent, bool, error) {
	doc, err := h.store.Get(ctx, model.CollectionHero, model.HeroDocumentID)
	if errors.Is(err, docstore.ErrNotFound) {
		return model.HeroContent{}, false, nil
	}
	if err != nil {
		return model.HeroContent{}, false, err
	}
	hero, err := DecodeFields[model.HeroContent](doc.Fields)
	if err != nil {
		return model.HeroContent{}, false, fmt.Errorf("%s/%s: %w", model.CollectionHero, model.HeroDocumentID, err)
	}
	return hero, true, nil
}

// Update merges patch into the hero document, creating it if needed.
func (h *HeroRepository) Update(ctx context.Context, patch model.HeroPatch) error {
	fields, err := EncodeFields(patch)
	if err != nil {
		return err
	}
	return h.store.Set(ctx, model.CollectionHero, model.HeroDocumentID, fields, true)
}

// Layer groups the repositories of every collection and the media uploader.
type Layer struct {
	Hero       *HeroRepository
	Gallery    *Repository[model.GalleryItem, model.GalleryPatch]
	Projects   *Repository[model.Project, model.ProjectPatch]
	Carousel   *Repository[model.CarouselItem, model.CarouselPatch]
	Volunteers *Repository[model.Volunteer, struct{}]
	Donors     *Repository[model.Donor, struct{}]
	Media      *MediaUploader
}

// NewLayer creates the content access layer over the given stores.
func NewLayer(docs docstore.Store, media *MediaUploader) *Layer {
	return &Layer{
		Hero:       NewHeroRepository(docs),
		Gallery:    NewRepository[model.GalleryItem, model.GalleryPatch](docs, GalleryKind),
		Projects:   NewRepository[model.Project, model.ProjectPatch](docs, ProjectKind),
		Carousel:   NewRepository[model.CarouselItem, model.CarouselPatch](docs, CarouselKind),
		Volunteers: NewRepository[model.Volunteer, struct{}](docs, VolunteerKind),
		Donors:     NewRepository[model.Donor, struct{}](docs, DonorKind),
		Media:      media,
	}
}
