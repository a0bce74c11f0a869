package model

import (
	"time"
)

// Asset classification. The class column is the primary control deciding
// whether a storage path may ever be served to an untrusted caller; path
// naming heuristics are only defense-in-depth on top of it.
const (
	AssetClassOriginal  = "original"
	AssetClassPreview   = "preview"
	AssetClassWatermark = "watermark"
)

// Asset statuses.
const (
	AssetStatusReady      = "ready"
	AssetStatusProcessing = "processing"
	AssetStatusDeleted    = "deleted"
)

// Asset is a processed library photo. StoragePath points at the
// full-resolution source and is never served for preview requests.
type Asset struct {
	ID            string    `db:"id"`
	EventID       string    `db:"event_id"`
	FolderID      string    `db:"folder_id"`
	Filename      string    `db:"filename"`
	StoragePath   string    `db:"storage_path"`
	PreviewPath   *string   `db:"preview_path"`
	WatermarkPath *string   `db:"watermark_path"`
	Class         string    `db:"class"`
	FileSize      int64     `db:"file_size"`
	MimeType      string    `db:"mime_type"`
	Status        string    `db:"status"`
	Origin        string    `db:"origin"`
	Metadata      *string   `db:"metadata"`
	CreatedAt     time.Time `db:"created_at"`

	// AssignmentID is populated by subject-scoped queries that join the
	// assignments table; NULL otherwise.
	AssignmentID *string `db:"assignment_id"`
}

func (a *Asset) HasWatermark() bool {
	return a.WatermarkPath != nil && *a.WatermarkPath != ""
}

func (a *Asset) HasPreview() bool {
	return a.PreviewPath != nil && *a.PreviewPath != ""
}
