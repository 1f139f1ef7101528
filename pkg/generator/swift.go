package generator

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// SwiftGenerator renders iOS artifacts: UIColor extensions for colors and
// CGFloat/FontSpec constants for the remaining groups.
type SwiftGenerator struct{}

func (g *SwiftGenerator) Platform() string { return "ios" }

// swiftDelimiter uses line comments; the insertion anchor is the first
// import statement of the generated file.
func swiftDelimiter() sections.Delimiter {
	return sections.LineComment(func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "import ")
	})
}

func (g *SwiftGenerator) Generate(c *token.TokenCollection, cfg Config) (*token.GenerationResult, error) {
	artifacts := []artifact{
		{"Colors+Generated.swift", g.renderColors},
		{"Typography+Generated.swift", g.renderTypography},
		{"Spacing+Generated.swift", g.renderSpacing},
		{"Theme+Generated.swift", g.renderTheme},
	}
	return generateAll(c, cfg, g.Platform(), swiftDelimiter(), artifacts)
}

func swiftHeader(sb *strings.Builder, c *token.TokenCollection, what string) {
	fmt.Fprintf(sb, "// %s generated from the %q token collection (v%s).\n", what, c.Name, c.Version)
	sb.WriteString("// Edit only inside custom sections; everything else is overwritten.\n\n")
	sb.WriteString("import UIKit\n\n")
}

func beginGenerated(sb *strings.Builder) {
	sb.WriteString("// MARK: - Auto-generated tokens\n\n")
}

func (g *SwiftGenerator) renderColors(c *token.TokenCollection) string {
	var sb strings.Builder
	swiftHeader(&sb, c, "Color tokens")
	beginGenerated(&sb)

	sb.WriteString("extension UIColor {\n")
	for _, tok := range c.TokensOfType(token.TypeColor) {
		hex, ok := tok.Value.(string)
		if !ok {
			continue
		}
		r, gch, b, a := swiftChannels(hex)
		fmt.Fprintf(&sb, "    static let %s = UIColor(red: %.3f, green: %.3f, blue: %.3f, alpha: %.3f)\n",
			camelCase(tok.Name), r, gch, b, a)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *SwiftGenerator) renderTypography(c *token.TokenCollection) string {
	var sb strings.Builder
	swiftHeader(&sb, c, "Typography tokens")
	beginGenerated(&sb)

	sb.WriteString("struct FontSpec {\n")
	sb.WriteString("    let family: String\n")
	sb.WriteString("    let size: CGFloat\n")
	sb.WriteString("    let weight: UIFont.Weight\n")
	sb.WriteString("}\n\n")
	sb.WriteString("enum TypographyTokens {\n")
	for _, tok := range c.TokensOfType(token.TypeTypography) {
		family := stringField(tok.Value, "fontFamily")
		size := dimensionNumber(stringField(tok.Value, "fontSize"))
		weight := intField(tok.Value, "fontWeight")
		fmt.Fprintf(&sb, "    static let %s = FontSpec(family: %q, size: %s, weight: %s)\n",
			camelCase(tok.Name), family, size, swiftWeight(weight))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *SwiftGenerator) renderSpacing(c *token.TokenCollection) string {
	var sb strings.Builder
	swiftHeader(&sb, c, "Spacing and sizing tokens")
	beginGenerated(&sb)

	sb.WriteString("enum SpacingTokens {\n")
	for _, tt := range []token.Type{token.TypeSpacing, token.TypeSizing} {
		for _, tok := range c.TokensOfType(tt) {
			dim, ok := tok.Value.(string)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "    static let %s: CGFloat = %s\n", camelCase(tok.Name), dimensionNumber(dim))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *SwiftGenerator) renderTheme(c *token.TokenCollection) string {
	var sb strings.Builder
	swiftHeader(&sb, c, "Theme aggregate")
	beginGenerated(&sb)

	sb.WriteString("enum ThemeTokens {\n")

	for _, tok := range c.TokensOfType(token.TypeShadow) {
		fmt.Fprintf(&sb, "    static let %s = (offsetX: CGFloat(%s), offsetY: CGFloat(%s), blur: CGFloat(%s), spread: CGFloat(%s), color: %q)\n",
			camelCase(tok.Name),
			dimensionNumber(stringField(tok.Value, "offsetX")),
			dimensionNumber(stringField(tok.Value, "offsetY")),
			dimensionNumber(stringField(tok.Value, "blur")),
			dimensionNumber(stringField(tok.Value, "spread")),
			stringField(tok.Value, "color"))
	}

	for _, tok := range c.TokensOfType(token.TypeBorder) {
		fmt.Fprintf(&sb, "    static let %s = (width: CGFloat(%s), style: %q, color: %q)\n",
			camelCase(tok.Name),
			dimensionNumber(stringField(tok.Value, "width")),
			stringField(tok.Value, "style"),
			stringField(tok.Value, "color"))
	}

	for _, tok := range c.TokensOfType(token.TypeOpacity) {
		fmt.Fprintf(&sb, "    static let %s: CGFloat = %.2f\n", camelCase(tok.Name), floatValue(tok.Value))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// swiftChannels splits a canonical hex color into 0-1 float channels.
func swiftChannels(hex string) (r, g, b, a float64) {
	ri, gi, bi, ai := channelInts(hex)
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, float64(ai) / 255
}

// channelInts parses #RRGGBB or #RRGGBBAA into integer channels; alpha
// defaults to 255.
func channelInts(hex string) (r, g, b, a int) {
	payload := strings.TrimPrefix(hex, "#")
	a = 255
	parse := func(s string) int {
		var n int
		fmt.Sscanf(s, "%02x", &n)
		return n
	}
	if len(payload) >= 6 {
		r, g, b = parse(payload[0:2]), parse(payload[2:4]), parse(payload[4:6])
	}
	if len(payload) == 8 {
		a = parse(payload[6:8])
	}
	return r, g, b, a
}

// swiftWeight maps a 100-900 weight onto UIFont.Weight cases.
func swiftWeight(w int) string {
	switch {
	case w <= 100:
		return ".ultraLight"
	case w <= 200:
		return ".thin"
	case w <= 300:
		return ".light"
	case w <= 400:
		return ".regular"
	case w <= 500:
		return ".medium"
	case w <= 600:
		return ".semibold"
	case w <= 700:
		return ".bold"
	case w <= 800:
		return ".heavy"
	default:
		return ".black"
	}
}
