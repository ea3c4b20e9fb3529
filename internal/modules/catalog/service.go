package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lavacar/internal/domain"
	"lavacar/internal/store"
)

// FormOptions is the reference data the booking and client forms need.
type FormOptions struct {
	SizeClasses []domain.SizeClass `json:"size_classes"`
	WashTypes   []domain.WashType  `json:"wash_types"`
}

// Service reads the catalog collections. They are reference data; nothing
// here writes.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// FormOptions fetches both catalogs concurrently; the two reads are
// independent of each other.
func (s *Service) FormOptions(ctx context.Context) (*FormOptions, error) {
	var opts FormOptions

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Select(ctx, "size_classes", &opts.SizeClasses, store.Query{
			Order: &store.Order{Column: "id"},
		})
	})
	g.Go(func() error {
		return s.store.Select(ctx, "wash_types", &opts.WashTypes, store.Query{
			Order: &store.Order{Column: "id"},
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}
