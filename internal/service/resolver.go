package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fotoclick/gallerygate/internal/aliasdir"
	"github.com/fotoclick/gallerygate/internal/validation"
)

// AliasLookup is the slice of the alias directory this service needs.
type AliasLookup interface {
	Lookup(ctx context.Context, alias string) (*aliasdir.LookupResult, error)
}

// ResolvedInput is the resolver's canonical output: one token value,
// regardless of which credential shape the caller presented.
type ResolvedInput struct {
	TokenValue    string
	Source        string // "alias" or "token"
	AliasMetadata map[string]string
}

// ResolverService normalizes raw caller input (alias, short code or
// opaque token) into a canonical token value.
type ResolverService struct {
	aliases AliasLookup
	logger  *slog.Logger
}

func NewResolverService(aliases AliasLookup, logger *slog.Logger) *ResolverService {
	return &ResolverService{
		aliases: aliases,
		logger:  logger.With("component", "resolver"),
	}
}

// Resolve classifies and normalizes rawInput. Alias-shaped input goes
// through the directory; everything else is used directly as the token
// value. The only side effect is the directory lookup.
func (s *ResolverService) Resolve(ctx context.Context, rawInput string) (*ResolvedInput, error) {
	input := validation.NormalizeInput(rawInput)
	if input == "" {
		return nil, errEmptyInput
	}

	if validation.ClassifyInput(input) == validation.KindToken {
		return &ResolvedInput{TokenValue: input, Source: "token"}, nil
	}

	result, err := s.aliases.Lookup(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, aliasdir.ErrAliasNotFound):
			return nil, errAliasNotFound
		case errors.Is(err, aliasdir.ErrUnexpectedResponse):
			return nil, wrapAccessError(CodeUnexpectedResponse, "alias directory gave an unusable reply", err)
		default:
			return nil, wrapAccessError(CodeNetworkError, "alias directory unreachable", err)
		}
	}

	s.logger.Debug("alias resolved", "alias", input)

	return &ResolvedInput{
		TokenValue:    result.Token,
		Source:        "alias",
		AliasMetadata: result.Metadata,
	}, nil
}
