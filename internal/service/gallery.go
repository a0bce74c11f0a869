package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fotoclick/gallerygate/internal/model"
	"github.com/fotoclick/gallerygate/internal/ratelimit"
	"github.com/fotoclick/gallerygate/internal/repository"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ResolveRequest is the inbound shape of one gallery resolution call.
type ResolveRequest struct {
	RawInput       string
	Password       string
	IP             string
	UserAgent      string
	Page           int
	Limit          int
	SearchTerm     string
	FolderID       string
	PhotoID        string
	IncludeCatalog bool
}

// DownloadRequest asks for the original of one photo.
type DownloadRequest struct {
	RawInput  string
	Password  string
	IP        string
	UserAgent string
	PhotoID   string
}

// GalleryService composes the resolution pipeline: resolver, validator,
// rate limiter, scoped asset query, URL issuance and catalog enrichment.
type GalleryService struct {
	resolver *ResolverService
	access   *AccessService
	limiter  *ratelimit.Limiter
	assets   repository.AssetRepository
	media    *MediaLinkService
	catalog  *CatalogService
	logger   *slog.Logger
}

func NewGalleryService(
	resolver *ResolverService,
	access *AccessService,
	limiter *ratelimit.Limiter,
	assets repository.AssetRepository,
	media *MediaLinkService,
	catalog *CatalogService,
	logger *slog.Logger,
) *GalleryService {
	return &GalleryService{
		resolver: resolver,
		access:   access,
		limiter:  limiter,
		assets:   assets,
		media:    media,
		catalog:  catalog,
		logger:   logger.With("component", "gallery"),
	}
}

// Resolve turns one opaque credential into a scoped, paginated gallery
// page. Resolver, validator and limiter failures are terminal; per-asset
// URL failures and catalog failures degrade locally.
func (s *GalleryService) Resolve(ctx context.Context, req ResolveRequest) (*model.GalleryResponse, error) {
	accessCtx, err := s.authorize(ctx, req.RawInput, req.Password, RequestContext{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return nil, err
	}

	page, limit := clampPage(req.Page, req.Limit)

	resp := &model.GalleryResponse{
		EventID:       accessCtx.EventID,
		Scope:         accessCtx.Scope,
		Items:         []*model.PhotoView{},
		Page:          page,
		Limit:         limit,
		AllowDownload: accessCtx.CanDownload,
		AllowComments: accessCtx.CanComment,
	}

	scope, inScope := scopeFor(accessCtx, req.FolderID)
	if inScope {
		result, err := s.assets.QueryPage(ctx, scope, repository.AssetFilters{
			SearchTerm: req.SearchTerm,
			PhotoID:    req.PhotoID,
		}, page, limit)
		if err != nil {
			return nil, wrapAccessError(CodeNetworkError, "asset store unavailable", err)
		}

		resp.Total = result.Total
		resp.HasMore = (page-1)*limit+len(result.Items) < result.Total
		for _, asset := range result.Items {
			resp.Items = append(resp.Items, s.photoView(ctx, accessCtx, asset))
		}
	}

	if req.IncludeCatalog {
		resp.Catalog = s.catalog.Enrich(ctx, accessCtx.EventID)
	}

	return resp, nil
}

// Download authorizes and issues an original-file URL for one photo.
// Unlike gallery assembly, every failure here is terminal.
func (s *GalleryService) Download(ctx context.Context, req DownloadRequest) (*SignedURL, error) {
	accessCtx, err := s.authorize(ctx, req.RawInput, req.Password, RequestContext{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return nil, err
	}

	if !accessCtx.CanDownload {
		return nil, newAccessError(CodeScopeViolation, "downloads are not enabled for this link")
	}

	scope, _ := scopeFor(accessCtx, "")
	asset, err := s.assets.ByIDInScope(ctx, scope, req.PhotoID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			// Out-of-scope and nonexistent photos are indistinguishable.
			return nil, newAccessError(CodeScopeViolation, "photo is not available for this link")
		}
		return nil, wrapAccessError(CodeNetworkError, "asset store unavailable", err)
	}

	return s.media.DownloadURL(ctx, asset)
}

// StaffList serves the back-office listing for authenticated staff.
// Staff bypass token scoping and rate limits but still never receive
// original-path preview URLs.
func (s *GalleryService) StaffList(ctx context.Context, eventID, folderID string, page, limit int) (*model.GalleryResponse, error) {
	page, limit = clampPage(page, limit)

	scope := repository.AssetScope{EventID: eventID}
	if folderID != "" {
		scope.FolderID = &folderID
	}

	result, err := s.assets.QueryPage(ctx, scope, repository.AssetFilters{}, page, limit)
	if err != nil {
		return nil, wrapAccessError(CodeNetworkError, "asset store unavailable", err)
	}

	staffCtx := &model.AccessContext{
		EventID:     eventID,
		CanView:     true,
		CanDownload: true,
	}

	resp := &model.GalleryResponse{
		EventID:       eventID,
		Items:         []*model.PhotoView{},
		Total:         result.Total,
		Page:          page,
		Limit:         limit,
		HasMore:       (page-1)*limit+len(result.Items) < result.Total,
		AllowDownload: true,
	}
	for _, asset := range result.Items {
		resp.Items = append(resp.Items, s.photoView(ctx, staffCtx, asset))
	}

	return resp, nil
}

// authorize runs the terminal head of the pipeline: input resolution,
// token validation, then rate limiting keyed by the validated token.
func (s *GalleryService) authorize(ctx context.Context, rawInput, password string, reqCtx RequestContext) (*model.AccessContext, error) {
	resolved, err := s.resolver.Resolve(ctx, rawInput)
	if err != nil {
		return nil, err
	}

	accessCtx, err := s.access.Validate(ctx, resolved.TokenValue, password, reqCtx)
	if err != nil {
		return nil, err
	}
	accessCtx.Source = resolved.Source

	result, err := s.limiter.Allow(ctx, accessCtx.Scope, accessCtx.Token.ID, reqCtx.IP)
	if err != nil {
		return nil, wrapAccessError(CodeNetworkError, "rate limiter unavailable", err)
	}
	if !result.Allowed {
		return nil, errRateLimited(result.RetryAfter)
	}

	return accessCtx, nil
}

// scopeFor derives the asset query scope exclusively from the access
// context. A caller-supplied folder may narrow an event-wide scope; a
// folder outside the token's bound folder yields no results rather than
// an error, so folder existence never leaks.
func scopeFor(accessCtx *model.AccessContext, requestedFolder string) (repository.AssetScope, bool) {
	scope := repository.AssetScope{
		EventID:        accessCtx.EventID,
		FolderID:       accessCtx.FolderID,
		SubjectID:      accessCtx.SubjectID,
		PhotoAllowlist: accessCtx.PhotoAllowlist,
	}

	if requestedFolder == "" {
		return scope, true
	}
	if scope.FolderID == nil {
		scope.FolderID = &requestedFolder
		return scope, true
	}
	if *scope.FolderID == requestedFolder {
		return scope, true
	}
	return scope, false
}

// photoView maps one asset row into its outward shape. URL issuance
// failures null the affected field and never fail the page.
func (s *GalleryService) photoView(ctx context.Context, accessCtx *model.AccessContext, asset *model.Asset) *model.PhotoView {
	view := &model.PhotoView{
		ID:           asset.ID,
		Filename:     asset.Filename,
		CreatedAt:    asset.CreatedAt,
		Size:         asset.FileSize,
		MimeType:     asset.MimeType,
		FolderID:     asset.FolderID,
		Origin:       asset.Origin,
		AssignmentID: asset.AssignmentID,
	}

	// previewUrl is strictly the watermark rendition; signedUrl may fall
	// back to the plain preview.
	preview, err := s.media.PreviewURL(ctx, asset, false)
	if err == nil {
		view.PreviewURL = &preview.URL
	}

	signed, err := s.media.PreviewURL(ctx, asset, true)
	if err == nil {
		view.SignedURL = &signed.URL
	} else {
		s.logger.Debug("no signed preview for asset", "asset_id", asset.ID)
	}

	if accessCtx.CanDownload {
		download, err := s.media.DownloadURL(ctx, asset)
		if err == nil {
			view.DownloadURL = &download.URL
		}
	}

	return view
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
