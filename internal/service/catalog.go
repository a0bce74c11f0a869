package service

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fotoclick/gallerygate/internal/model"
)

// CatalogSource is the slice of the external catalog service this
// enricher needs.
type CatalogSource interface {
	CatalogForEvent(ctx context.Context, eventID string) ([]*model.CatalogItem, error)
}

// CatalogService merges print pricing into gallery responses. It is
// strictly optional: any failure degrades the catalog field to nil and
// never fails the overall response.
type CatalogService struct {
	source   CatalogSource
	collator *collate.Collator
	logger   *slog.Logger
}

func NewCatalogService(source CatalogSource, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		source:   source,
		collator: collate.New(language.Und),
		logger:   logger.With("component", "catalog"),
	}
}

// Enrich fetches the event catalog sorted by explicit sort order, with
// label collation as the tie-break.
func (s *CatalogService) Enrich(ctx context.Context, eventID string) []*model.CatalogItem {
	if s.source == nil {
		return nil
	}

	items, err := s.source.CatalogForEvent(ctx, eventID)
	if err != nil {
		s.logger.Warn("catalog enrichment failed, degrading to empty", "event_id", eventID, "error", err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return s.collator.CompareString(items[i].Label, items[j].Label) < 0
	})

	return items
}
