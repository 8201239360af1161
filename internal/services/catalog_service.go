package services

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/models"
)

// CategorySource is one category's full collection, as served by a
// ProductService.
type CategorySource interface {
	Schema() models.Schema
	All(ctx context.Context) ([]models.Record, error)
}

// CatalogService lists every category at once.
type CatalogService struct {
	sources []CategorySource
	logger  *slog.Logger
}

// NewCatalogService creates a new CatalogService. The listing keeps the order
// in which sources are given.
func NewCatalogService(logger *slog.Logger, sources ...CategorySource) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{sources: sources, logger: logger}
}

// Categories returns the category names in listing order.
func (s *CatalogService) Categories() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Schema().Name
	}
	return names
}

// ListAll reads every source concurrently and concatenates the results in
// source order. Any failed read fails the whole listing.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Record, error) {
	results := make([][]models.Record, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			records, err := src.All(gctx)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var appErr *apperror.InternalError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal("failed to list products", err)
	}

	var all []models.Record
	for _, records := range results {
		all = append(all, records...)
	}
	if len(all) == 0 {
		return nil, apperror.NewNotFound("no products found")
	}
	return all, nil
}
