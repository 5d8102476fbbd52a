package directory

import (
	"context"
	"strings"
	"unicode/utf8"
)

// AliasRegistry persists the mapping from full department names to short
// display aliases. The mapping has its own lifecycle: it survives contact
// deletion and is edited only through explicit registry operations.
type AliasRegistry interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, aliases map[string]string) error
}

// SuggestAlias proposes a default short alias for a department name: a single
// word is returned as-is, a multi-word name becomes an uppercased acronym of
// first letters. A persisted alias always takes precedence over a suggestion.
func SuggestAlias(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	var b strings.Builder
	for _, part := range parts {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}
