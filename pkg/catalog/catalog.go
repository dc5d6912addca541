// Package catalog serves book listings and recommendations through the
// three-tier degrade path: AI recommendations, then the popular-books
// listing, then the bundled sample catalog. The caller always gets books.
package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"bookmarket/pkg/apiclient"
	"bookmarket/pkg/domain"
	"bookmarket/pkg/fallback"
)

// Service resolves catalog data with graceful degradation.
type Service struct {
	api   *apiclient.Client
	group singleflight.Group
}

// New constructs the catalog service.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// Recommendations returns up to limit books for the given recommendation
// type. Identical concurrent requests are coalesced into one resolution so
// several widgets rendering at once share a single network call.
func (s *Service) Recommendations(ctx context.Context, recType string, limit int) []domain.Book {
	if limit <= 0 {
		limit = 8
	}
	key := fmt.Sprintf("recs:%s:%d", recType, limit)
	v, _, _ := s.group.Do(key, func() (any, error) {
		books := fallback.Resolve(ctx,
			fallback.Named[domain.Book]{Name: "ai-recommendations", Provide: func(ctx context.Context) ([]domain.Book, error) {
				return s.api.Recommendations(ctx, recType, limit)
			}},
			fallback.Named[domain.Book]{Name: "popular-books", Provide: func(ctx context.Context) ([]domain.Book, error) {
				return s.api.Books(ctx)
			}},
			fallback.Named[domain.Book]{Name: "sample-catalog", Provide: func(ctx context.Context) ([]domain.Book, error) {
				return SampleCatalog(), nil
			}},
		)
		return books, nil
	})
	books := v.([]domain.Book)
	if len(books) > limit {
		books = books[:limit]
	}
	return books
}

// Books returns the full listing, falling back to the bundled catalog when
// the backend is unreachable.
func (s *Service) Books(ctx context.Context) []domain.Book {
	return fallback.Resolve(ctx,
		fallback.Named[domain.Book]{Name: "books", Provide: func(ctx context.Context) ([]domain.Book, error) {
			return s.api.Books(ctx)
		}},
		fallback.Named[domain.Book]{Name: "sample-books", Provide: func(ctx context.Context) ([]domain.Book, error) {
			return s.api.SampleBooks(ctx)
		}},
		fallback.Named[domain.Book]{Name: "sample-catalog", Provide: func(ctx context.Context) ([]domain.Book, error) {
			return SampleCatalog(), nil
		}},
	)
}
