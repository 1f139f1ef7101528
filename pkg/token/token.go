// Package token defines the canonical design-token model shared by every stage
// of the pipeline: the raw collections produced by design-platform connectors,
// the normalized collections the generators consume, and the artifacts the
// generators emit.
package token

import (
	"sort"
	"strconv"
	"strings"
)

// Type classifies a design token. The set is closed; anything a connector
// reports that cannot be folded into one of these becomes TypeOther.
type Type string

const (
	TypeColor      Type = "color"
	TypeTypography Type = "typography"
	TypeSpacing    Type = "spacing"
	TypeSizing     Type = "sizing"
	TypeShadow     Type = "shadow"
	TypeBorder     Type = "border"
	TypeOpacity    Type = "opacity"
	TypeOther      Type = "other"
)

// typeSynonyms folds the vocabulary design tools actually use into the closed
// Type set.
var typeSynonyms = map[string]Type{
	"color":         TypeColor,
	"colour":        TypeColor,
	"fill":          TypeColor,
	"typography":    TypeTypography,
	"text":          TypeTypography,
	"font":          TypeTypography,
	"spacing":       TypeSpacing,
	"space":         TypeSpacing,
	"margin":        TypeSpacing,
	"padding":       TypeSpacing,
	"sizing":        TypeSizing,
	"size":          TypeSizing,
	"dimension":     TypeSizing,
	"shadow":        TypeShadow,
	"effect":        TypeShadow,
	"drop-shadow":   TypeShadow,
	"border":        TypeBorder,
	"stroke":        TypeBorder,
	"border-radius": TypeBorder,
	"opacity":       TypeOpacity,
	"alpha":         TypeOpacity,
	"transparency":  TypeOpacity,
	"other":         TypeOther,
}

// ParseType folds a raw type string into the closed Type set.
// Unrecognized or blank input maps to TypeOther.
func ParseType(raw string) Type {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := typeSynonyms[key]; ok {
		return t
	}
	return TypeOther
}

// DesignToken is a single named design decision. Name is unique within a
// collection and always lower-kebab-case after normalization. Value's shape
// depends on Type: a hex string for colors, an object for typography, shadows
// and borders, a dimension string for spacing/sizing, a float for opacity.
type DesignToken struct {
	Name        string            `json:"name"`
	Type        Type              `json:"type"`
	Category    string            `json:"category"`
	Value       any               `json:"value"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// HasTag reports whether the token carries the given tag.
func (t *DesignToken) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag, keeping the tag set duplicate-free.
func (t *DesignToken) AddTag(tag string) {
	if !t.HasTag(tag) {
		t.Tags = append(t.Tags, tag)
	}
}

// TokenCollection is one design file's worth of tokens, created fresh each
// pipeline run. After normalization the collection is treated as immutable
// except for the dark-mode derived-token append.
type TokenCollection struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Source   string            `json:"source"`
	Tokens   []DesignToken     `json:"tokens"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TokensOfType returns the tokens of the given type in collection order.
func (c *TokenCollection) TokensOfType(tt Type) []DesignToken {
	var out []DesignToken
	for _, tok := range c.Tokens {
		if tok.Type == tt {
			out = append(out, tok)
		}
	}
	return out
}

// Sort orders tokens by (category, name), the canonical collection order.
func (c *TokenCollection) Sort() {
	sort.SliceStable(c.Tokens, func(i, j int) bool {
		if c.Tokens[i].Category != c.Tokens[j].Category {
			return c.Tokens[i].Category < c.Tokens[j].Category
		}
		return c.Tokens[i].Name < c.Tokens[j].Name
	})
}

// SemVer splits the collection's dot-separated version string into integer
// major/minor/patch parts. A malformed version yields 1.0.0.
func (c *TokenCollection) SemVer() (major, minor, patch int) {
	major, minor, patch = 1, 0, 0
	parts := strings.Split(strings.TrimSpace(c.Version), ".")
	if len(parts) == 0 || parts[0] == "" {
		return major, minor, patch
	}
	nums := make([]int, 0, 3)
	for i, p := range parts {
		if i == 3 {
			break
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 1, 0, 0
		}
		nums = append(nums, n)
	}
	for i, n := range nums {
		switch i {
		case 0:
			major = n
		case 1:
			minor = n
		case 2:
			patch = n
		}
	}
	return major, minor, patch
}

// CustomSection is a hand-authored region recovered from a previously
// generated artifact file. StartLine and EndLine record where the region sat
// in the file it was extracted from; they are provenance only and play no part
// in the merge.
type CustomSection struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// GeneratedFile is one rendered artifact, with the custom sections it
// preserved from the previous generation.
type GeneratedFile struct {
	FilePath          string          `json:"filePath"`
	Content           string          `json:"content"`
	HasCustomSections bool            `json:"hasCustomSections"`
	CustomSections    []CustomSection `json:"customSections,omitempty"`
}

// GenerationResult aggregates the artifacts produced for one target platform.
type GenerationResult struct {
	Platform string            `json:"platform"`
	Files    []GeneratedFile   `json:"files"`
	Success  bool              `json:"success"`
	Error    string            `json:"error,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TagTemplateResult is a fully resolved version-control tag. Placeholders
// keeps every placeholder→value substitution that produced the tag, for
// auditability.
type TagTemplateResult struct {
	Tag          string            `json:"tag"`
	Template     string            `json:"template"`
	Placeholders map[string]string `json:"placeholders"`
}
