package service

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fotoclick/gallerygate/internal/model"
	"github.com/fotoclick/gallerygate/internal/storage"
)

// SourceKind records which rendition backed a signed URL.
type SourceKind string

const (
	SourceWatermark SourceKind = "watermark"
	SourcePreview   SourceKind = "preview"
	SourceOriginal  SourceKind = "original"
)

// SignedURL is a time-bounded read grant for one rendition.
type SignedURL struct {
	URL       string
	ExpiresAt time.Time
	Source    SourceKind
}

// MediaLinkBuckets names the storage buckets URL issuance selects from.
// LegacyBucket is the pre-migration name, retried once on NotFound.
type MediaLinkBuckets struct {
	Preview  string
	Original string
	Legacy   string
}

// MediaLinkService turns asset path descriptors into signed URLs under a
// watermark-first policy. Originals are never used for preview-class
// requests, regardless of caller flags.
type MediaLinkService struct {
	blobs   storage.BlobStorage
	buckets MediaLinkBuckets
	expiry  time.Duration
	logger  *slog.Logger
}

func NewMediaLinkService(blobs storage.BlobStorage, buckets MediaLinkBuckets, expiry time.Duration, logger *slog.Logger) *MediaLinkService {
	return &MediaLinkService{
		blobs:   blobs,
		buckets: buckets,
		expiry:  expiry,
		logger:  logger.With("component", "medialink"),
	}
}

// PreviewURL issues a URL for browsing contexts. Precedence: watermark
// rendition, then plain preview when allowPreviewFallback is set, then
// refusal. The original storage path is never a candidate here.
func (s *MediaLinkService) PreviewURL(ctx context.Context, asset *model.Asset, allowPreviewFallback bool) (*SignedURL, error) {
	if asset.HasWatermark() {
		signed, err := s.sign(ctx, *asset.WatermarkPath, SourceWatermark)
		if err == nil {
			return signed, nil
		}
		s.logger.Warn("watermark rendition unavailable",
			"asset_id", asset.ID, "file", maskFilename(*asset.WatermarkPath), "error", err)
		// fall through to preview when allowed
	}

	if allowPreviewFallback && asset.HasPreview() {
		signed, err := s.sign(ctx, *asset.PreviewPath, SourcePreview)
		if err == nil {
			return signed, nil
		}
		s.logger.Warn("preview rendition unavailable",
			"asset_id", asset.ID, "file", maskFilename(*asset.PreviewPath), "error", err)
	}

	s.logger.Warn("refusing preview issuance, no safe rendition", "asset_id", asset.ID)
	return nil, errNoSafePath
}

// DownloadURL issues a URL for the original. Callers must have verified
// the download capability; this method re-checks only that the stored
// path really is an original and not a mislabeled preview artifact.
func (s *MediaLinkService) DownloadURL(ctx context.Context, asset *model.Asset) (*SignedURL, error) {
	if asset.Class != model.AssetClassOriginal {
		s.logger.Warn("refusing download, asset not classified as original",
			"asset_id", asset.ID, "class", asset.Class)
		return nil, errNoSafePath
	}
	// Naming heuristic as defense-in-depth on top of the class column.
	if looksLikePreviewPath(asset.StoragePath) {
		s.logger.Warn("refusing download, storage path has preview naming",
			"asset_id", asset.ID, "file", maskFilename(asset.StoragePath))
		return nil, errNoSafePath
	}

	return s.sign(ctx, asset.StoragePath, SourceOriginal)
}

// sign picks the bucket from path naming and retries once against the
// legacy bucket on NotFound to tolerate bucket-rename migrations.
func (s *MediaLinkService) sign(ctx context.Context, key string, source SourceKind) (*SignedURL, error) {
	bucket := s.bucketFor(key)

	url, err := s.blobs.CreateSignedURL(ctx, bucket, key, s.expiry)
	if err != nil && errors.Is(err, storage.ErrObjectNotFound) && s.buckets.Legacy != "" {
		s.logger.Info("object missing in current bucket, trying legacy bucket",
			"bucket", bucket, "file", maskFilename(key))
		url, err = s.blobs.CreateSignedURL(ctx, s.buckets.Legacy, key, s.expiry)
	}
	if err != nil {
		return nil, err
	}

	return &SignedURL{
		URL:       url,
		ExpiresAt: time.Now().Add(s.expiry),
		Source:    source,
	}, nil
}

func (s *MediaLinkService) bucketFor(key string) string {
	if looksLikePreviewPath(key) {
		return s.buckets.Preview
	}
	return s.buckets.Original
}

func looksLikePreviewPath(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "previews/") || strings.Contains(lower, "watermark")
}

// maskFilename keeps enough of a name to correlate log lines without
// exposing the full key.
func maskFilename(key string) string {
	base := path.Base(key)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if len(stem) <= 4 {
		return "****" + ext
	}
	return stem[:4] + "****" + ext
}
