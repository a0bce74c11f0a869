package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fotoclick/gallerygate/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.AccessToken) error
	ByValueHash(ctx context.Context, valueHash string) (*model.AccessToken, error)
	IncrementViews(ctx context.Context, id string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tokens (id, value_hash, scope, resource_id, event_id, folder_id, subject_id,
		                    allow_download, allow_comments, photo_allowlist, password_hash,
		                    is_active, expires_at, max_views, view_count, legacy_source, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.ValueHash,
		token.Scope,
		token.ResourceID,
		token.EventID,
		token.FolderID,
		token.SubjectID,
		token.AllowDownload,
		token.AllowComments,
		token.PhotoAllowlist,
		token.PasswordHash,
		token.IsActive,
		token.ExpiresAt,
		token.MaxViews,
		token.ViewCount,
		token.LegacySource,
		token.Metadata,
		token.CreatedAt,
	)
	return err
}

func (r *tokenRepository) ByValueHash(ctx context.Context, valueHash string) (*model.AccessToken, error) {
	token := &model.AccessToken{}
	query := `SELECT * FROM tokens WHERE value_hash = $1`

	err := r.db.GetContext(ctx, token, query, valueHash)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}

	return token, err
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// hits never lose an increment. Enforcement against max_views stays in
// the validator; overshoot there is bounded by the degree of concurrency.
func (r *tokenRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE tokens SET view_count = view_count + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
