package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCatalogForEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/event-festival/catalog" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","label":"Print 10x15","priceCents":500,"currency":"EUR","sortOrder":1}]`))
	}))
	defer server.Close()

	client := New(server.URL, 2*time.Second)
	items, err := client.CatalogForEvent(context.Background(), "event-festival")
	if err != nil {
		t.Fatalf("CatalogForEvent returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Label != "Print 10x15" || items[0].PriceCents != 500 {
		t.Errorf("item = %+v", items[0])
	}
}

func TestCatalogForEventNoCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, 2*time.Second)
	items, err := client.CatalogForEvent(context.Background(), "event-unpublished")
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil", items)
	}
}

func TestCatalogForEventServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, 2*time.Second)
	_, err := client.CatalogForEvent(context.Background(), "event-festival")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestCatalogForEventMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer server.Close()

	client := New(server.URL, 2*time.Second)
	_, err := client.CatalogForEvent(context.Background(), "event-festival")
	if err == nil {
		t.Fatal("expected decode error")
	}
}
