package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fotoclick/gallerygate/internal/model"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *model.AccessLogEntry) error
	CleanupOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
}

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry *model.AccessLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO access_log (id, token_id, ip, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.TokenID,
		entry.IP,
		entry.UserAgent,
		entry.CreatedAt,
	)
	return err
}

// CleanupOlderThan removes audit rows past the retention window.
// The log is append-only otherwise; call this from a cron job if data
// retention policies require it.
func (r *auditRepository) CleanupOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `DELETE FROM access_log WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
