// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package appdata holds the in-process cache of all site content.
//
// The Store is the single source of truth the HTTP layer reads from. It loads
// every collection once at startup and mediates every mutation so that the
// cache and the remote document store stay consistent within a process.
package appdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/digitalislam/dicms/internal/content"
	"github.com/digitalislam/dicms/internal/model"
)

// Store errors.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotCached         = errors.New("entity not in cache")
	ErrNoFiles           = errors.New("no files to upload")
)

// Uploader stores media files and returns their public URLs.
type Uploader interface {
	Upload(ctx context.Context, namespace, filename, contentType string, body io.Reader) (string, error)
}

// File is one media file to upload.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// GalleryBatch is the shared metadata of a batch gallery upload.
type GalleryBatch struct {
	Title    string
	Category string
}

// Store caches hero content, gallery, projects, carousel, volunteers and
// donors.
type Store struct {
	Hero       *Singleton[model.HeroContent, model.HeroPatch]
	Gallery    *Collection[model.GalleryItem, model.GalleryPatch]
	Projects   *Collection[model.Project, model.ProjectPatch]
	Carousel   *Collection[model.CarouselItem, model.CarouselPatch]
	Volunteers *AppendOnly[model.Volunteer]
	Donors     *AppendOnly[model.Donor]

	layer  *content.Layer
	media  Uploader
	logger *slog.Logger

	mu         sync.Mutex
	lastReport *InitReport
}

// Option configures a Store.
type Option func(*options)

type options struct {
	heroPolicy UpdatePolicy
	media      Uploader
}

// WithHeroPolicy sets the update policy of the hero content singleton.
// The default is Optimistic.
func WithHeroPolicy(p UpdatePolicy) Option {
	return func(o *options) { o.heroPolicy = p }
}

// WithUploader replaces the media uploader of the content layer.
func WithUploader(u Uploader) Option {
	return func(o *options) { o.media = u }
}

// New creates a Store over the content access layer. Nothing is loaded until
// Initialize is called.
func New(layer *content.Layer, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{heroPolicy: Optimistic}
	if layer.Media != nil {
		o.media = layer.Media
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		Hero: NewSingleton[model.HeroContent, model.HeroPatch](
			model.CollectionHero, o.heroPolicy, layer.Hero, logger),
		Gallery: NewCollection[model.GalleryItem, model.GalleryPatch](
			kindOf(content.GalleryKind, WriteThrough), layer.Gallery, logger),
		Projects: NewCollection[model.Project, model.ProjectPatch](
			kindOf(content.ProjectKind, WriteThrough), layer.Projects, logger),
		Carousel: NewCollection[model.CarouselItem, model.CarouselPatch](
			kindOf(content.CarouselKind, WriteThrough), layer.Carousel, logger),
		Volunteers: NewAppendOnly[model.Volunteer](
			kindOf(content.VolunteerKind, WriteThrough), layer.Volunteers, logger),
		Donors: NewAppendOnly[model.Donor](
			kindOf(content.DonorKind, WriteThrough), layer.Donors, logger),
		layer:  layer,
		media:  o.media,
		logger: logger,
	}
}

func kindOf[E any](k content.Kind[E], policy UpdatePolicy) Kind[E] {
	return Kind[E]{Name: k.Collection, ID: k.ID, Policy: policy}
}

type loader interface {
	Name() string
	State() State
	Load(ctx context.Context) error
}

func (s *Store) loaders() []loader {
	return []loader{s.Hero, s.Gallery, s.Projects, s.Carousel, s.Volunteers, s.Donors}
}

// CollectionResult is the outcome of loading one collection.
type CollectionResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	err   error
}

// InitReport lists the per-collection outcome of Initialize.
type InitReport struct {
	Results  []CollectionResult `json:"results"`
	Duration time.Duration      `json:"duration"`
}

// OK reports whether every collection loaded.
func (r InitReport) OK() bool {
	return r.Err() == nil
}

// Failed returns the names of collections that failed to load.
func (r InitReport) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if res.err != nil {
			names = append(names, res.Name)
		}
	}
	return names
}

// Err joins the load errors, or returns nil if all collections loaded.
func (r InitReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}
	return errors.Join(errs...)
}

// Initialize loads every collection concurrently. Each load settles on its
// own: a failed collection stays empty (or keeps its previous contents)
// while the others are populated. Failures are logged and reported.
func (s *Store) Initialize(ctx context.Context) InitReport {
	start := time.Now()
	loaders := s.loaders()
	errs := make([]error, len(loaders))

	var g errgroup.Group
	for i, l := range loaders {
		g.Go(func() error {
			errs[i] = l.Load(ctx)
			return nil
		})
	}
	_ = g.Wait()

	report := InitReport{Duration: time.Since(start)}
	for i, l := range loaders {
		res := CollectionResult{Name: l.Name(), err: errs[i]}
		if errs[i] != nil {
			res.Error = errs[i].Error()
		}
		report.Results = append(report.Results, res)
	}

	s.mu.Lock()
	s.lastReport = &report
	s.mu.Unlock()

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Error("content store initialized with failures", "failed", failed, "duration", report.Duration)
	} else {
		s.logger.Info("content store initialized", "duration", report.Duration)
	}
	return report
}

// LastReport returns the report of the most recent Initialize, if any.
func (s *Store) LastReport() (InitReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReport == nil {
		return InitReport{}, false
	}
	return *s.lastReport, true
}

// Loading reports whether any collection has not finished loading.
func (s *Store) Loading() bool {
	for _, l := range s.loaders() {
		if l.State() != Ready {
			return true
		}
	}
	return false
}

// CollectionStatus describes one cached collection.
type CollectionStatus struct {
	Name   string `json:"name"`
	State  State  `json:"state"`
	Items  int    `json:"items"`
	Policy string `json:"policy,omitempty"`
}

// Status returns the state of every collection.
func (s *Store) Status() []CollectionStatus {
	_, heroExists := s.Hero.Get()
	heroItems := 0
	if heroExists {
		heroItems = 1
	}
	return []CollectionStatus{
		{Name: s.Hero.Name(), State: s.Hero.State(), Items: heroItems, Policy: s.Hero.Policy().String()},
		{Name: s.Gallery.Name(), State: s.Gallery.State(), Items: s.Gallery.Len(), Policy: s.Gallery.Policy().String()},
		{Name: s.Projects.Name(), State: s.Projects.State(), Items: s.Projects.Len(), Policy: s.Projects.Policy().String()},
		{Name: s.Carousel.Name(), State: s.Carousel.State(), Items: s.Carousel.Len(), Policy: s.Carousel.Policy().String()},
		{Name: s.Volunteers.Name(), State: s.Volunteers.State(), Items: s.Volunteers.Len()},
		{Name: s.Donors.Name(), State: s.Donors.State(), Items: s.Donors.Len()},
	}
}

// Reload fetches one collection by name.
func (s *Store) Reload(ctx context.Context, name string) error {
	for _, l := range s.loaders() {
		if l.Name() == name {
			return l.Load(ctx)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// List returns the cached entities of one collection by name. The hero
// singleton is returned as a one-element slice when it exists.
func (s *Store) List(name string) (any, error) {
	switch name {
	case model.CollectionHero:
		hero, ok := s.Hero.Get()
		if !ok {
			return []model.HeroContent{}, nil
		}
		return []model.HeroContent{hero}, nil
	case model.CollectionGallery:
		return s.Gallery.Items(), nil
	case model.CollectionProjects:
		return s.Projects.Items(), nil
	case model.CollectionCarousel:
		return s.Carousel.Items(), nil
	case model.CollectionVolunteers:
		return s.Volunteers.Items(), nil
	case model.CollectionDonors:
		return s.Donors.Items(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
}

// Snapshot is the public site content.
type Snapshot struct {
	Hero     model.HeroContent    `json:"hero"`
	Gallery  []model.GalleryItem  `json:"gallery"`
	Projects []model.Project      `json:"projects"`
	Carousel []model.CarouselItem `json:"carousel"`
	Loading  bool                 `json:"loading"`
}

// Snapshot returns copies of the public collections.
func (s *Store) Snapshot() Snapshot {
	hero, _ := s.Hero.Get()
	return Snapshot{
		Hero:     hero,
		Gallery:  s.Gallery.Items(),
		Projects: s.Projects.Items(),
		Carousel: s.Carousel.Items(),
		Loading:  s.Loading(),
	}
}

// SeedDefaults creates the default projects one after another and then
// re-fetches the project collection. It does not check whether projects
// already exist. A failure stops seeding, leaving the projects created so
// far; the collection is re-fetched either way.
func (s *Store) SeedDefaults(ctx context.Context) error {
	var seedErr error
	for _, p := range model.DefaultProjects() {
		if _, err := s.layer.Projects.Create(ctx, p); err != nil {
			seedErr = fmt.Errorf("seeding project %q: %w", p.Title, err)
			break
		}
	}

	if err := s.Projects.Load(ctx); err != nil && seedErr == nil {
		return err
	}
	return seedErr
}

// UploadGallery uploads files one at a time and creates one gallery item
// per file with the shared title and category. It stops at the first
// failure and returns the items created before it.
func (s *Store) UploadGallery(ctx context.Context, batch GalleryBatch, files []File) ([]model.GalleryItem, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if s.media == nil {
		return nil, errors.New("media uploads are not configured")
	}

	created := make([]model.GalleryItem, 0, len(files))
	for i, f := range files {
		url, err := s.media.Upload(ctx, content.NamespaceGallery, f.Name, f.ContentType, f.Body)
		if err != nil {
			return created, fmt.Errorf("uploading file %d (%s): %w", i+1, f.Name, err)
		}

		item, err := s.Gallery.Create(ctx, model.GalleryItem{
			Title:     batch.Title,
			Category:  batch.Category,
			Type:      model.MediaTypeFromContentType(f.ContentType),
			URL:       url,
			Thumbnail: url,
		})
		if err != nil {
			return created, fmt.Errorf("saving file %d (%s): %w", i+1, f.Name, err)
		}
		created = append(created, item)
	}
	return created, nil
}

// UpdateHeroMedia uploads a hero image or video and points the hero content
// at it.
func (s *Store) UpdateHeroMedia(ctx context.Context, f File) (model.HeroContent, error) {
	if s.media == nil {
		return model.HeroContent{}, errors.New("media uploads are not configured")
	}

	url, err := s.media.Upload(ctx, content.NamespaceLandingPage, f.Name, f.ContentType, f.Body)
	if err != nil {
		return model.HeroContent{}, fmt.Errorf("uploading hero media: %w", err)
	}

	mediaType := model.MediaTypeFromContentType(f.ContentType)
	return s.Hero.Update(ctx, model.HeroPatch{MediaURL: &url, MediaType: &mediaType})
}
