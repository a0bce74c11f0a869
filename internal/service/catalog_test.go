package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fotoclick/gallerygate/internal/model"
)

type fakeCatalogSource struct {
	items map[string][]*model.CatalogItem
	err   error
}

func (f *fakeCatalogSource) CatalogForEvent(_ context.Context, eventID string) ([]*model.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[eventID], nil
}

func TestEnrichSortsBySortOrderThenLabel(t *testing.T) {
	source := &fakeCatalogSource{items: map[string][]*model.CatalogItem{
		"event-festival": {
			{ID: "c", Label: "Poster", SortOrder: 2},
			{ID: "b", Label: "Print 13x18", SortOrder: 1},
			{ID: "a", Label: "Print 10x15", SortOrder: 1},
		},
	}}
	catalog := NewCatalogService(source, slog.Default())

	items := catalog.Enrich(context.Background(), "event-festival")
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}

	want := []string{"Print 10x15", "Print 13x18", "Poster"}
	for i, label := range want {
		if items[i].Label != label {
			t.Errorf("items[%d].Label = %q, want %q", i, items[i].Label, label)
		}
	}
}

func TestEnrichDegradesOnFailure(t *testing.T) {
	catalog := NewCatalogService(&fakeCatalogSource{err: errors.New("upstream down")}, slog.Default())

	if items := catalog.Enrich(context.Background(), "event-festival"); items != nil {
		t.Errorf("Enrich = %v, want nil on source failure", items)
	}
}

func TestEnrichEmptyCatalog(t *testing.T) {
	catalog := NewCatalogService(&fakeCatalogSource{}, slog.Default())

	if items := catalog.Enrich(context.Background(), "event-festival"); items != nil {
		t.Errorf("Enrich = %v, want nil for an event with no catalog", items)
	}
}

func TestEnrichWithoutSource(t *testing.T) {
	catalog := NewCatalogService(nil, slog.Default())

	if items := catalog.Enrich(context.Background(), "event-festival"); items != nil {
		t.Errorf("Enrich = %v, want nil when no source is configured", items)
	}
}
