package model

import (
	"time"
)

// AccessLogEntry is one append-only audit record of a successful token
// validation. Token values never appear here, only the token ID.
type AccessLogEntry struct {
	ID        string    `db:"id"`
	TokenID   string    `db:"token_id"`
	IP        string    `db:"ip"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}
