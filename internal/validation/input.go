package validation

import (
	"strings"
)

// InputKind classifies raw gallery credentials by shape.
type InputKind string

const (
	// KindAlias is short human-typable input (QR alias, course code)
	// that must be resolved through the alias directory.
	KindAlias InputKind = "alias"
	// KindToken is a canonical opaque token used as-is.
	KindToken InputKind = "token"
)

const (
	aliasMaxLen     = 16
	shortCodeMinLen = 4
	tokenMinLen     = 20
)

// NormalizeInput trims surrounding whitespace and lowercases short
// alias-like input. Canonical tokens keep their case.
func NormalizeInput(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < tokenMinLen {
		return strings.ToLower(trimmed)
	}
	return trimmed
}

// ClassifyInput decides how normalized input should be resolved.
// Alphanumeric strings of 4-16 characters are treated as aliases or
// short codes; anything of 20+ characters is a canonical token.
// The remainder (odd lengths, punctuation) is passed through as a token
// value and left to the validator to reject.
func ClassifyInput(input string) InputKind {
	if len(input) >= tokenMinLen {
		return KindToken
	}
	if len(input) >= shortCodeMinLen && len(input) <= aliasMaxLen && isAlphanumeric(input) {
		return KindAlias
	}
	return KindToken
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return len(s) > 0
}
