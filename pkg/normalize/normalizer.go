// Package normalize converts raw token collections, with whatever loosely
// typed value encodings the source design tool produced, into the canonical
// model the rest of the pipeline depends on. Canonical collections are sorted,
// deduplicated and stable: normalizing an already-normalized collection is a
// no-op, which is what makes change detection and regeneration diffs
// trustworthy.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/hellenic-development/token-sync/pkg/cache"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// Engine normalizes token collections. The color cache is injected by the
// caller and memoizes parsed color strings for the duration of a run; a nil
// cache disables memoization.
type Engine struct {
	colors   *cache.Cache[string, string]
	darkMode bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithColorCache injects the parsed-color cache.
func WithColorCache(c *cache.Cache[string, string]) Option {
	return func(e *Engine) { e.colors = c }
}

// WithDarkMode enables the derived dark-mode sibling pass for color tokens.
func WithDarkMode(enabled bool) Option {
	return func(e *Engine) { e.darkMode = enabled }
}

// New creates a normalization engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var separatorRuns = regexp.MustCompile(`-+`)

// NormalizeName rewrites an arbitrary token name into a canonical
// lower-kebab-case identifier. Malformed names are always rewritten, never
// rejected: an empty name becomes "unnamed-token" and a name that would not
// start with a letter gets a "token-" prefix.
func NormalizeName(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var sb strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}

	name := separatorRuns.ReplaceAllString(sb.String(), "-")
	name = strings.Trim(name, "-")

	if name == "" {
		return "unnamed-token"
	}
	if !unicode.IsLetter(rune(name[0])) {
		name = "token-" + name
	}
	return name
}

// Normalize converts a raw collection into canonical form. A malformed token
// is skipped with a warning rather than failing the collection; an empty
// result is a hard failure. The returned warnings describe every skipped
// token.
func (e *Engine) Normalize(raw *token.TokenCollection) (*token.TokenCollection, []string, error) {
	if raw == nil {
		return nil, nil, fmt.Errorf("nil token collection")
	}

	out := &token.TokenCollection{
		Name:     raw.Name,
		Version:  raw.Version,
		Source:   raw.Source,
		Metadata: raw.Metadata,
	}

	var warnings []string
	seen := make(map[string]int)

	for _, rawTok := range raw.Tokens {
		tok, err := e.normalizeToken(rawTok)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping token %q: %v", rawTok.Name, err))
			continue
		}

		// Rewritten names may collide; suffix duplicates rather than drop them.
		if n := seen[tok.Name]; n > 0 {
			seen[tok.Name] = n + 1
			tok.Name = fmt.Sprintf("%s-%d", tok.Name, n+1)
		}
		seen[tok.Name]++

		out.Tokens = append(out.Tokens, tok)
	}

	if len(out.Tokens) == 0 {
		return nil, warnings, fmt.Errorf("normalization produced an empty collection (%d token(s) skipped)", len(warnings))
	}

	if e.darkMode {
		e.appendDarkVariants(out)
	}

	out.Sort()
	return out, warnings, nil
}

func (e *Engine) normalizeToken(raw token.DesignToken) (token.DesignToken, error) {
	tok := token.DesignToken{
		Name:        NormalizeName(raw.Name),
		Type:        token.ParseType(string(raw.Type)),
		Description: strings.TrimSpace(raw.Description),
		Attributes:  make(map[string]string, len(raw.Attributes)+4),
	}
	for k, v := range raw.Attributes {
		tok.Attributes[k] = v
	}

	tok.Category = strings.ToLower(strings.TrimSpace(raw.Category))
	if tok.Category == "" {
		tok.Category = string(tok.Type)
	}

	for _, tag := range raw.Tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			tok.AddTag(t)
		}
	}

	if raw.Value == nil {
		return tok, fmt.Errorf("missing value")
	}

	var err error
	switch tok.Type {
	case token.TypeColor:
		tok.Value, err = e.normalizeColor(raw.Value)
	case token.TypeTypography:
		tok.Value, err = e.normalizeTypography(raw.Value)
	case token.TypeSpacing, token.TypeSizing:
		tok.Value, err = normalizeDimension(raw.Value)
	case token.TypeShadow:
		tok.Value, err = e.normalizeShadow(raw.Value)
	case token.TypeBorder:
		tok.Value, err = e.normalizeBorder(raw.Value)
	case token.TypeOpacity:
		tok.Value, err = normalizeOpacity(raw.Value)
	default:
		tok.Value = raw.Value
	}
	if err != nil {
		return tok, err
	}

	e.deriveAttributes(&tok)
	return tok, nil
}
