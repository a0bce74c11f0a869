package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fotoclick/gallerygate/internal/model"
	"github.com/fotoclick/gallerygate/internal/repository"
)

// RequestContext carries the caller attributes recorded alongside every
// validation.
type RequestContext struct {
	IP        string
	UserAgent string
}

// AccessService validates canonical token values and produces the
// AccessContext every downstream component trusts.
type AccessService struct {
	tokens repository.TokenRepository
	audit  repository.AuditRepository
	logger *slog.Logger
}

func NewAccessService(tokens repository.TokenRepository, audit repository.AuditRepository, logger *slog.Logger) *AccessService {
	return &AccessService{
		tokens: tokens,
		audit:  audit,
		logger: logger.With("component", "access"),
	}
}

// HashTokenValue derives the stored lookup hash for a plaintext token
// value. Plaintext values are never persisted or logged.
func HashTokenValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Validate runs the ordered token checks: exists, active, unexpired,
// under its view limit, and (when configured) password match. On success
// it bumps the view counter and writes an audit entry, both best-effort.
func (s *AccessService) Validate(ctx context.Context, tokenValue string, password string, reqCtx RequestContext) (*model.AccessContext, error) {
	valueHash := HashTokenValue(tokenValue)

	token, err := s.tokens.ByValueHash(ctx, valueHash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, errInvalidToken
		}
		return nil, wrapAccessError(CodeNetworkError, "token store unavailable", err)
	}

	// Hash-keyed lookup already bound value to row; the compare below
	// keeps the final equality check constant-time.
	if subtle.ConstantTimeCompare([]byte(valueHash), []byte(token.ValueHash)) != 1 {
		return nil, errInvalidToken
	}

	if !token.IsActive {
		return nil, errInactiveToken
	}
	if token.IsExpired() {
		return nil, errExpiredToken
	}
	if token.ViewsExhausted() {
		return nil, errViewLimit
	}

	if token.HasPassword() {
		err = bcrypt.CompareHashAndPassword([]byte(*token.PasswordHash), []byte(password))
		if err != nil {
			// Same outward failure as an unknown token; a wrong password
			// must not confirm the link exists.
			return nil, errInvalidToken
		}
	}

	s.recordAccess(token, reqCtx)

	return buildContext(token), nil
}

// recordAccess bumps view_count and appends the audit entry without
// gating the read path. Failures are logged, never returned.
func (s *AccessService) recordAccess(token *model.AccessToken, reqCtx RequestContext) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.tokens.IncrementViews(ctx, token.ID)
		if err != nil {
			s.logger.Warn("failed to increment view count", "token_id", token.ID, "error", err)
		}

		err = s.audit.Record(ctx, &model.AccessLogEntry{
			TokenID:   token.ID,
			IP:        reqCtx.IP,
			UserAgent: reqCtx.UserAgent,
		})
		if err != nil {
			s.logger.Warn("failed to record access log entry", "token_id", token.ID, "error", err)
		}
	}()
}

// buildContext derives the canonical context and capability flags from
// a validated token. Legacy per-student tokens come out as family-scope
// contexts bound to the implicit subject; nothing downstream sees the
// legacy shape.
func buildContext(token *model.AccessToken) *model.AccessContext {
	scope := token.Scope
	subjectID := token.SubjectID
	if scope == model.ScopeLegacySubject {
		scope = model.ScopeFamily
		if subjectID == nil {
			// Legacy rows store the student in resource_id
			resource := token.ResourceID
			subjectID = &resource
		}
	}

	accessCtx := &model.AccessContext{
		Token:          token,
		Scope:          scope,
		EventID:        token.EventID,
		FolderID:       token.FolderID,
		SubjectID:      subjectID,
		AllowDownload:  token.AllowDownload,
		AllowComments:  token.AllowComments,
		PhotoAllowlist: parseAllowlist(token.PhotoAllowlist),
	}

	accessCtx.CanView = true
	accessCtx.CanDownload = token.AllowDownload
	accessCtx.CanComment = token.AllowComments
	// Anonymous share audiences browse but purchase through their own
	// checkout link; scoped audiences purchase directly.
	accessCtx.CanPurchase = scope != model.ScopeShare

	return accessCtx
}

// parseAllowlist returns nil for an unrestricted token. An allowlist
// that fails to parse comes back empty but non-nil, which the asset
// scope treats as "match nothing" rather than falling open.
func parseAllowlist(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var ids []string
	err := json.Unmarshal([]byte(*raw), &ids)
	if err != nil {
		slog.Warn("unparsable photo allowlist, restricting to empty set", "error", err)
		return []string{}
	}
	return ids
}
