package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fotoclick/gallerygate/internal/db"
	"github.com/fotoclick/gallerygate/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// One shared connection so every statement sees the same memory db
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return conn
}

func seedAsset(t *testing.T, assets AssetRepository, id, eventID, folderID string) *model.Asset {
	t.Helper()

	asset := &model.Asset{
		ID:          id,
		EventID:     eventID,
		FolderID:    folderID,
		Filename:    id + ".jpg",
		StoragePath: "events/" + eventID + "/" + id + ".jpg",
		Class:       model.AssetClassOriginal,
		Status:      model.AssetStatusReady,
		Origin:      "upload",
		CreatedAt:   time.Now().UTC(),
	}
	err := assets.Create(context.Background(), asset)
	if err != nil {
		t.Fatalf("failed to seed asset %s: %v", id, err)
	}
	return asset
}

func TestTokenRepositoryRoundTrip(t *testing.T) {
	conn := newTestDB(t)
	tokens := NewTokenRepository(conn)
	ctx := context.Background()

	token := &model.AccessToken{
		ValueHash:  "abc123hash",
		Scope:      model.ScopeEvent,
		ResourceID: "event-1",
		EventID:    "event-1",
		IsActive:   true,
	}
	err := tokens.Create(ctx, token)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token.ID == "" {
		t.Fatal("Create should assign an id")
	}

	got, err := tokens.ByValueHash(ctx, "abc123hash")
	if err != nil {
		t.Fatalf("ByValueHash returned error: %v", err)
	}
	if got.ID != token.ID || got.Scope != model.ScopeEvent || !got.IsActive {
		t.Errorf("got = %+v", got)
	}

	_, err = tokens.ByValueHash(ctx, "no-such-hash")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestTokenRepositoryIncrementViews(t *testing.T) {
	conn := newTestDB(t)
	tokens := NewTokenRepository(conn)
	ctx := context.Background()

	token := &model.AccessToken{
		ValueHash:  "views-hash",
		Scope:      model.ScopeShare,
		ResourceID: "event-1",
		EventID:    "event-1",
		IsActive:   true,
	}
	if err := tokens.Create(ctx, token); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := tokens.IncrementViews(ctx, token.ID); err != nil {
			t.Fatalf("IncrementViews returned error: %v", err)
		}
	}

	got, err := tokens.ByValueHash(ctx, "views-hash")
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", got.ViewCount)
	}

	err = tokens.IncrementViews(ctx, "no-such-token")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestAssetQueryPageEventScope(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "photo-1", "event-1", "folder-a")
	seedAsset(t, assets, "photo-2", "event-1", "folder-b")
	seedAsset(t, assets, "photo-3", "event-2", "folder-a")

	hidden := seedAsset(t, assets, "photo-4", "event-1", "folder-a")
	_, err := conn.Exec(`UPDATE assets SET status = 'deleted' WHERE id = ?`, hidden.ID)
	if err != nil {
		t.Fatal(err)
	}

	page, err := assets.QueryPage(ctx, AssetScope{EventID: "event-1"}, AssetFilters{}, 1, 50)
	if err != nil {
		t.Fatalf("QueryPage returned error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2 (other event and deleted excluded)", page.Total)
	}
}

func TestAssetQueryPageFolderScope(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "photo-1", "event-1", "folder-a")
	seedAsset(t, assets, "photo-2", "event-1", "folder-b")

	folder := "folder-a"
	page, err := assets.QueryPage(ctx, AssetScope{EventID: "event-1", FolderID: &folder}, AssetFilters{}, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != "photo-1" {
		t.Errorf("page = %+v, want only photo-1", page.Items)
	}
}

func TestAssetQueryPageSubjectScope(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "photo-1", "event-1", "folder-a")
	seedAsset(t, assets, "photo-2", "event-1", "folder-a")

	err := assets.Assign(ctx, "asg-1", "photo-1", "subject-juan")
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}

	subject := "subject-juan"
	page, err := assets.QueryPage(ctx, AssetScope{EventID: "event-1", SubjectID: &subject}, AssetFilters{}, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != "photo-1" {
		t.Fatalf("page = %+v, want only the assigned photo", page.Items)
	}
	if page.Items[0].AssignmentID == nil || *page.Items[0].AssignmentID != "asg-1" {
		t.Errorf("AssignmentID = %v, want asg-1", page.Items[0].AssignmentID)
	}
}

func TestAssetQueryPageAllowlist(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "photo-1", "event-1", "folder-a")
	seedAsset(t, assets, "photo-2", "event-1", "folder-a")

	page, err := assets.QueryPage(ctx, AssetScope{
		EventID:        "event-1",
		PhotoAllowlist: []string{"photo-2"},
	}, AssetFilters{}, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != "photo-2" {
		t.Errorf("page = %+v, want only photo-2", page.Items)
	}

	// Non-nil empty allowlist matches nothing
	page, err = assets.QueryPage(ctx, AssetScope{
		EventID:        "event-1",
		PhotoAllowlist: []string{},
	}, AssetFilters{}, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Errorf("empty allowlist returned %d rows, want 0", page.Total)
	}
}

func TestAssetQueryPagePagination(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	for _, id := range []string{"photo-1", "photo-2", "photo-3"} {
		seedAsset(t, assets, id, "event-1", "folder-a")
	}

	seen := make(map[string]bool)
	for page := 1; page <= 2; page++ {
		result, err := assets.QueryPage(ctx, AssetScope{EventID: "event-1"}, AssetFilters{}, page, 2)
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != 3 {
			t.Errorf("page %d Total = %d, want 3", page, result.Total)
		}
		for _, item := range result.Items {
			if seen[item.ID] {
				t.Errorf("asset %s returned on more than one page", item.ID)
			}
			seen[item.ID] = true
		}
	}
	if len(seen) != 3 {
		t.Errorf("saw %d distinct assets, want 3", len(seen))
	}
}

func TestAssetQueryPageSearch(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "sunset-juan", "event-1", "folder-a")
	seedAsset(t, assets, "group-photo", "event-1", "folder-a")

	page, err := assets.QueryPage(ctx, AssetScope{EventID: "event-1"}, AssetFilters{SearchTerm: "sunset"}, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != "sunset-juan" {
		t.Errorf("page = %+v, want only sunset-juan", page.Items)
	}
}

func TestAssetByIDInScope(t *testing.T) {
	conn := newTestDB(t)
	assets := NewAssetRepository(conn)
	ctx := context.Background()

	seedAsset(t, assets, "photo-1", "event-1", "folder-a")
	seedAsset(t, assets, "photo-other", "event-2", "folder-a")

	got, err := assets.ByIDInScope(ctx, AssetScope{EventID: "event-1"}, "photo-1")
	if err != nil {
		t.Fatalf("ByIDInScope returned error: %v", err)
	}
	if got.ID != "photo-1" {
		t.Errorf("got = %+v", got)
	}

	// In another event's scope the same id does not exist
	_, err = assets.ByIDInScope(ctx, AssetScope{EventID: "event-1"}, "photo-other")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("err = %v, want ErrAssetNotFound", err)
	}
}

func TestAuditRepository(t *testing.T) {
	conn := newTestDB(t)
	audit := NewAuditRepository(conn)
	ctx := context.Background()

	err := audit.Record(ctx, &model.AccessLogEntry{
		TokenID:   "tok-1",
		IP:        "1.2.3.4",
		UserAgent: "tests",
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	_, err = conn.Exec(`UPDATE access_log SET created_at = ?`, time.Now().Add(-48*time.Hour).UTC())
	if err != nil {
		t.Fatal(err)
	}

	removed, err := audit.CleanupOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOlderThan returned error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}
