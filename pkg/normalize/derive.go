package normalize

import (
	"strconv"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/token"
)

// semanticTags are assigned by substring match on the canonical name. The
// error bucket also matches "danger", which some design systems use instead.
var semanticTags = []struct {
	tag     string
	matches []string
}{
	{"primary", []string{"primary"}},
	{"secondary", []string{"secondary"}},
	{"accent", []string{"accent"}},
	{"success", []string{"success"}},
	{"warning", []string{"warning"}},
	{"error", []string{"error", "danger"}},
	{"info", []string{"info"}},
	{"small", []string{"small"}},
	{"medium", []string{"medium"}},
	{"large", []string{"large"}},
	{"xl", []string{"xl"}},
}

const (
	wcagAANormal = 4.5

	darkenFactor  = 0.3
	lightenFactor = 1.7
)

// deriveAttributes computes semantic tags and type-specific metrics for a
// canonical token: luminance and WCAG contrast for colors, a size category
// for typography.
func (e *Engine) deriveAttributes(tok *token.DesignToken) {
	for _, st := range semanticTags {
		for _, m := range st.matches {
			if strings.Contains(tok.Name, m) {
				tok.AddTag(st.tag)
				break
			}
		}
	}

	switch tok.Type {
	case token.TypeColor:
		hex, ok := tok.Value.(string)
		if !ok {
			return
		}
		lum, ok := luminance(hex)
		if !ok {
			return
		}
		vsWhite := contrastRatio(lum, 1.0)
		vsBlack := contrastRatio(lum, 0.0)
		tok.Attributes["luminance"] = strconv.FormatFloat(lum, 'f', 4, 64)
		tok.Attributes["contrast_vs_white"] = strconv.FormatFloat(vsWhite, 'f', 2, 64)
		tok.Attributes["contrast_vs_black"] = strconv.FormatFloat(vsBlack, 'f', 2, 64)
		tok.Attributes["wcag_aa_normal"] = strconv.FormatBool(vsWhite >= wcagAANormal || vsBlack >= wcagAANormal)
	case token.TypeTypography:
		obj, ok := tok.Value.(map[string]any)
		if !ok {
			return
		}
		size, ok := obj["fontSize"].(string)
		if !ok {
			return
		}
		if category := fontSizeCategory(size); category != "" {
			tok.Attributes["font_size_category"] = category
		}
	}
}

// fontSizeCategory buckets a canonical font-size dimension by its numeric
// part.
func fontSizeCategory(size string) string {
	numeric := strings.TrimFunc(size, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	px, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return ""
	}
	switch {
	case px < 12:
		return "extra-small"
	case px < 16:
		return "small"
	case px < 20:
		return "medium"
	case px < 24:
		return "large"
	case px < 32:
		return "extra-large"
	default:
		return "display"
	}
}

// appendDarkVariants emits a "<name>-dark" sibling for every color token.
// Light colors (luminance above 0.5) are darkened, dark colors lightened.
// Existing variants and tokens that are themselves derived are left alone so
// repeated normalization cannot compound.
func (e *Engine) appendDarkVariants(c *token.TokenCollection) {
	existing := make(map[string]bool, len(c.Tokens))
	for _, tok := range c.Tokens {
		existing[tok.Name] = true
	}

	var derived []token.DesignToken
	for _, tok := range c.Tokens {
		if tok.Type != token.TypeColor || tok.HasTag("dark-mode") {
			continue
		}
		hex, ok := tok.Value.(string)
		if !ok {
			continue
		}
		name := tok.Name + "-dark"
		if existing[name] {
			continue
		}

		factor := lightenFactor
		if lum, ok := luminance(hex); ok && lum > 0.5 {
			factor = darkenFactor
		}

		variant := token.DesignToken{
			Name:        name,
			Type:        token.TypeColor,
			Category:    tok.Category,
			Value:       scaleColor(hex, factor),
			Description: tok.Description,
			Tags:        []string{"dark-mode", "computed"},
			Attributes: map[string]string{
				"base_token": tok.Name,
			},
		}
		e.deriveAttributes(&variant)

		existing[name] = true
		derived = append(derived, variant)
	}

	c.Tokens = append(c.Tokens, derived...)
}
