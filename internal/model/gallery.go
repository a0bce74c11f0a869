package model

import (
	"time"
)

// PhotoView is the outward representation of one asset in a gallery
// response. URL fields are nil when issuance was refused or failed.
type PhotoView struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	PreviewURL   *string   `json:"previewUrl"`
	SignedURL    *string   `json:"signedUrl"`
	DownloadURL  *string   `json:"downloadUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	FolderID     string    `json:"folderId"`
	Origin       string    `json:"origin"`
	AssignmentID *string   `json:"assignmentId,omitempty"`
}

// GalleryResponse is the composed result of one resolution call.
type GalleryResponse struct {
	EventID       string         `json:"eventId"`
	Scope         TokenScope     `json:"scope"`
	Items         []*PhotoView   `json:"items"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	HasMore       bool           `json:"hasMore"`
	AllowDownload bool           `json:"allowDownload"`
	AllowComments bool           `json:"allowComments"`
	Catalog       []*CatalogItem `json:"catalog"`
}
