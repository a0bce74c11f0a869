package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fotoclick/gallerygate/internal/model"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
)

// AssetScope bounds a query to the slice of the library a resolved
// credential may see. It is built from the access context only; caller
// filters never widen it.
type AssetScope struct {
	EventID   string
	FolderID  *string
	SubjectID *string
	// PhotoAllowlist restricts results to specific asset IDs when non-empty.
	PhotoAllowlist []string
}

// AssetFilters narrow a scoped query further.
type AssetFilters struct {
	SearchTerm string
	PhotoID    string
}

type AssetPage struct {
	Items []*model.Asset
	Total int
}

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	Assign(ctx context.Context, assignmentID, assetID, subjectID string) error
	QueryPage(ctx context.Context, scope AssetScope, filters AssetFilters, page, limit int) (*AssetPage, error)
	ByIDInScope(ctx context.Context, scope AssetScope, id string) (*model.Asset, error)
}

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	query := `INSERT INTO assets (id, event_id, folder_id, filename, storage_path, preview_path, watermark_path,
	                              class, file_size, mime_type, status, origin, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.EventID,
		asset.FolderID,
		asset.Filename,
		asset.StoragePath,
		asset.PreviewPath,
		asset.WatermarkPath,
		asset.Class,
		asset.FileSize,
		asset.MimeType,
		asset.Status,
		asset.Origin,
		asset.Metadata,
		asset.CreatedAt,
	)
	return err
}

func (r *assetRepository) Assign(ctx context.Context, assignmentID, assetID, subjectID string) error {
	query := `INSERT INTO asset_assignments (id, asset_id, subject_id, created_at)
	          VALUES ($1, $2, $3, CURRENT_TIMESTAMP)`
	_, err := r.db.ExecContext(ctx, query, assignmentID, assetID, subjectID)
	return err
}

// QueryPage returns the total match count and one page of assets from a
// single transaction, so HasMore derived from Total is always consistent
// with the returned slice for that call.
func (r *assetRepository) QueryPage(ctx context.Context, scope AssetScope, filters AssetFilters, page, limit int) (*AssetPage, error) {
	where, args := buildScopeQuery(scope, filters)

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	selectCols := "a.*, NULL AS assignment_id"
	from := "assets a"
	if scope.SubjectID != nil {
		selectCols = "a.*, aa.id AS assignment_id"
		from = "assets a JOIN asset_assignments aa ON aa.asset_id = a.id"
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, from, where)
	countQuery = tx.Rebind(countQuery)

	var total int
	err = tx.GetContext(ctx, &total, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	offset := (page - 1) * limit
	pageQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY a.created_at, a.id LIMIT ? OFFSET ?`,
		selectCols, from, where)
	pageQuery = tx.Rebind(pageQuery)

	var items []*model.Asset
	err = tx.SelectContext(ctx, &items, pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to select assets: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return &AssetPage{Items: items, Total: total}, nil
}

// ByIDInScope fetches a single asset only if it lies inside the scope.
// Out-of-scope IDs return ErrAssetNotFound so existence never leaks.
func (r *assetRepository) ByIDInScope(ctx context.Context, scope AssetScope, id string) (*model.Asset, error) {
	page, err := r.QueryPage(ctx, scope, AssetFilters{PhotoID: id}, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, ErrAssetNotFound
	}
	return page.Items[0], nil
}

func buildScopeQuery(scope AssetScope, filters AssetFilters) (string, []interface{}) {
	conds := []string{"a.event_id = ?", "a.status = ?"}
	args := []interface{}{scope.EventID, model.AssetStatusReady}

	if scope.FolderID != nil {
		conds = append(conds, "a.folder_id = ?")
		args = append(args, *scope.FolderID)
	}
	if scope.SubjectID != nil {
		conds = append(conds, "aa.subject_id = ?")
		args = append(args, *scope.SubjectID)
	}
	if scope.PhotoAllowlist != nil && len(scope.PhotoAllowlist) == 0 {
		// Restricted token with an unusable allowlist: match nothing.
		conds = append(conds, "1 = 0")
	}
	if len(scope.PhotoAllowlist) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(scope.PhotoAllowlist)), ",")
		conds = append(conds, fmt.Sprintf("a.id IN (%s)", placeholders))
		for _, id := range scope.PhotoAllowlist {
			args = append(args, id)
		}
	}
	if filters.SearchTerm != "" {
		conds = append(conds, "a.filename LIKE ?")
		args = append(args, "%"+filters.SearchTerm+"%")
	}
	if filters.PhotoID != "" {
		conds = append(conds, "a.id = ?")
		args = append(args, filters.PhotoID)
	}

	return strings.Join(conds, " AND "), args
}
