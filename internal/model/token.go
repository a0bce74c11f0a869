package model

import (
	"time"
)

// TokenScope identifies which slice of the library a token unlocks.
type TokenScope string

const (
	ScopeEvent         TokenScope = "event"
	ScopeCourse        TokenScope = "course"
	ScopeFamily        TokenScope = "family"
	ScopeShare         TokenScope = "share"
	ScopeLegacySubject TokenScope = "legacy_subject"
)

// AccessToken is an opaque credential granting scoped read access to a
// slice of an event's media. The plaintext value is never stored; only
// its SHA-256 hash.
type AccessToken struct {
	ID            string     `db:"id"`
	ValueHash     string     `db:"value_hash"`
	Scope         TokenScope `db:"scope"`
	ResourceID    string     `db:"resource_id"`
	EventID       string     `db:"event_id"`
	FolderID      *string    `db:"folder_id"`
	SubjectID     *string    `db:"subject_id"`
	AllowDownload bool       `db:"allow_download"`
	AllowComments bool       `db:"allow_comments"`
	// PhotoAllowlist is a JSON-encoded []string restricting a share link
	// to specific photos. NULL means no restriction.
	PhotoAllowlist *string    `db:"photo_allowlist"`
	PasswordHash   *string    `db:"password_hash"`
	IsActive       bool       `db:"is_active"`
	ExpiresAt      *time.Time `db:"expires_at"`
	MaxViews       *int       `db:"max_views"`
	ViewCount      int        `db:"view_count"`
	LegacySource   *string    `db:"legacy_source"`
	Metadata       *string    `db:"metadata"`
	CreatedAt      time.Time  `db:"created_at"`
}

func (t *AccessToken) IsExpired() bool {
	return t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt)
}

func (t *AccessToken) ViewsExhausted() bool {
	return t.MaxViews != nil && t.ViewCount >= *t.MaxViews
}

func (t *AccessToken) HasPassword() bool {
	return t.PasswordHash != nil && *t.PasswordHash != ""
}
