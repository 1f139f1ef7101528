package generator

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// CSSGenerator renders web stylesheet artifacts. The dialect sub-template
// selects plain CSS custom properties, SCSS $variables or LESS @variables.
type CSSGenerator struct{}

func (g *CSSGenerator) Platform() string { return "web" }

// cssDelimiter uses block comments; the insertion anchor is the first
// @import, comment or root-selector line.
func cssDelimiter() sections.Delimiter {
	return sections.BlockComment(func(line string) bool {
		trimmed := strings.TrimSpace(line)
		return strings.HasPrefix(trimmed, "@import") ||
			strings.HasPrefix(trimmed, "/*") ||
			strings.HasPrefix(trimmed, ":root") ||
			strings.HasSuffix(trimmed, "{")
	})
}

// dialect normalizes the configured sub-template, defaulting to css.
func (g *CSSGenerator) dialect(cfg Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.Dialect)) {
	case "scss":
		return "scss"
	case "less":
		return "less"
	default:
		return "css"
	}
}

func (g *CSSGenerator) Generate(c *token.TokenCollection, cfg Config) (*token.GenerationResult, error) {
	ext := g.dialect(cfg)

	render := func(group func(*token.TokenCollection, string) string) func(*token.TokenCollection) string {
		return func(c *token.TokenCollection) string { return group(c, ext) }
	}

	artifacts := []artifact{
		{"colors." + ext, render(g.renderColors)},
		{"typography." + ext, render(g.renderTypography)},
		{"spacing." + ext, render(g.renderSpacing)},
		{"theme." + ext, render(g.renderTheme)},
	}
	result, err := generateAll(c, cfg, g.Platform(), cssDelimiter(), artifacts)
	if result != nil {
		result.Metadata["dialect"] = ext
	}
	return result, err
}

func cssHeader(sb *strings.Builder, c *token.TokenCollection, what string) {
	fmt.Fprintf(sb, "/* %s generated from the %q token collection (v%s). */\n", what, c.Name, c.Version)
	sb.WriteString("/* Edit only inside custom sections; everything else is overwritten. */\n\n")
}

// property renders one variable declaration in the selected dialect.
func property(dialect, name, value string) string {
	switch dialect {
	case "scss":
		return fmt.Sprintf("$%s: %s;", name, value)
	case "less":
		return fmt.Sprintf("@%s: %s;", name, value)
	default:
		return fmt.Sprintf("  --%s: %s;", name, value)
	}
}

// writeBlock emits a group of declarations, wrapped in :root for plain CSS.
func writeBlock(sb *strings.Builder, dialect string, decls []string) {
	if dialect == "css" {
		sb.WriteString(":root {\n")
	}
	for _, d := range decls {
		sb.WriteString(d + "\n")
	}
	if dialect == "css" {
		sb.WriteString("}\n")
	}
}

func (g *CSSGenerator) renderColors(c *token.TokenCollection, dialect string) string {
	var sb strings.Builder
	cssHeader(&sb, c, "Color tokens")

	var decls []string
	for _, tok := range c.TokensOfType(token.TypeColor) {
		hex, ok := tok.Value.(string)
		if !ok {
			continue
		}
		decls = append(decls, property(dialect, "color-"+tok.Name, hex))
	}
	writeBlock(&sb, dialect, decls)
	return sb.String()
}

func (g *CSSGenerator) renderTypography(c *token.TokenCollection, dialect string) string {
	var sb strings.Builder
	cssHeader(&sb, c, "Typography tokens")

	var decls []string
	for _, tok := range c.TokensOfType(token.TypeTypography) {
		base := "typography-" + tok.Name
		decls = append(decls,
			property(dialect, base+"-font-family", stringField(tok.Value, "fontFamily")),
			property(dialect, base+"-font-size", stringField(tok.Value, "fontSize")),
			property(dialect, base+"-font-weight", fmt.Sprintf("%d", intField(tok.Value, "fontWeight"))))
		if lh := stringField(tok.Value, "lineHeight"); lh != "" {
			decls = append(decls, property(dialect, base+"-line-height", lh))
		}
		if ls := stringField(tok.Value, "letterSpacing"); ls != "" {
			decls = append(decls, property(dialect, base+"-letter-spacing", ls))
		}
	}
	writeBlock(&sb, dialect, decls)
	return sb.String()
}

func (g *CSSGenerator) renderSpacing(c *token.TokenCollection, dialect string) string {
	var sb strings.Builder
	cssHeader(&sb, c, "Spacing and sizing tokens")

	var decls []string
	for _, tt := range []token.Type{token.TypeSpacing, token.TypeSizing} {
		prefix := "spacing-"
		if tt == token.TypeSizing {
			prefix = "sizing-"
		}
		for _, tok := range c.TokensOfType(tt) {
			dim, ok := tok.Value.(string)
			if !ok {
				continue
			}
			decls = append(decls, property(dialect, prefix+tok.Name, dim))
		}
	}
	writeBlock(&sb, dialect, decls)
	return sb.String()
}

func (g *CSSGenerator) renderTheme(c *token.TokenCollection, dialect string) string {
	var sb strings.Builder
	cssHeader(&sb, c, "Theme aggregate")

	var decls []string

	for _, tok := range c.TokensOfType(token.TypeShadow) {
		value := fmt.Sprintf("%s %s %s %s %s",
			stringField(tok.Value, "offsetX"),
			stringField(tok.Value, "offsetY"),
			stringField(tok.Value, "blur"),
			stringField(tok.Value, "spread"),
			stringField(tok.Value, "color"))
		decls = append(decls, property(dialect, "shadow-"+tok.Name, value))
	}

	for _, tok := range c.TokensOfType(token.TypeBorder) {
		value := fmt.Sprintf("%s %s %s",
			stringField(tok.Value, "width"),
			stringField(tok.Value, "style"),
			stringField(tok.Value, "color"))
		decls = append(decls, property(dialect, "border-"+tok.Name, value))
	}

	for _, tok := range c.TokensOfType(token.TypeOpacity) {
		decls = append(decls, property(dialect, "opacity-"+tok.Name, fmt.Sprintf("%.2f", floatValue(tok.Value))))
	}

	writeBlock(&sb, dialect, decls)
	return sb.String()
}
