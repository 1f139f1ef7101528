package generator

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// ComposeGenerator renders Android/Jetpack Compose artifacts. Colors are
// packed 0xAARRGGBB integer literals, dimensions use dp/sp units.
type ComposeGenerator struct{}

func (g *ComposeGenerator) Platform() string { return "android" }

func composeDelimiter() sections.Delimiter {
	return sections.LineComment(func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "import ")
	})
}

func (g *ComposeGenerator) Generate(c *token.TokenCollection, cfg Config) (*token.GenerationResult, error) {
	artifacts := []artifact{
		{"Colors.kt", g.renderColors},
		{"Typography.kt", g.renderTypography},
		{"Spacing.kt", g.renderSpacing},
		{"Theme.kt", g.renderTheme},
	}
	return generateAll(c, cfg, g.Platform(), composeDelimiter(), artifacts)
}

func composeHeader(sb *strings.Builder, c *token.TokenCollection, what string, imports ...string) {
	fmt.Fprintf(sb, "// %s generated from the %q token collection (v%s).\n", what, c.Name, c.Version)
	sb.WriteString("// Edit only inside custom sections; everything else is overwritten.\n\n")
	sb.WriteString("package com.designtokens.generated\n\n")
	for _, imp := range imports {
		sb.WriteString("import " + imp + "\n")
	}
	sb.WriteString("\n")
}

func (g *ComposeGenerator) renderColors(c *token.TokenCollection) string {
	var sb strings.Builder
	composeHeader(&sb, c, "Color tokens", "androidx.compose.ui.graphics.Color")

	sb.WriteString("object ColorTokens {\n")
	for _, tok := range c.TokensOfType(token.TypeColor) {
		hex, ok := tok.Value.(string)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "    val %s = Color(0x%s)\n", pascalCase(tok.Name), packedARGB(hex))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *ComposeGenerator) renderTypography(c *token.TokenCollection) string {
	var sb strings.Builder
	composeHeader(&sb, c, "Typography tokens",
		"androidx.compose.ui.text.TextStyle",
		"androidx.compose.ui.text.font.FontWeight",
		"androidx.compose.ui.unit.sp")

	sb.WriteString("object TypographyTokens {\n")
	for _, tok := range c.TokensOfType(token.TypeTypography) {
		size := dimensionNumber(stringField(tok.Value, "fontSize"))
		weight := intField(tok.Value, "fontWeight")
		fmt.Fprintf(&sb, "    val %s = TextStyle(fontSize = %s.sp, fontWeight = FontWeight(%d))\n",
			pascalCase(tok.Name), size, weight)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *ComposeGenerator) renderSpacing(c *token.TokenCollection) string {
	var sb strings.Builder
	composeHeader(&sb, c, "Spacing and sizing tokens", "androidx.compose.ui.unit.dp")

	sb.WriteString("object SpacingTokens {\n")
	for _, tt := range []token.Type{token.TypeSpacing, token.TypeSizing} {
		for _, tok := range c.TokensOfType(tt) {
			dim, ok := tok.Value.(string)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "    val %s = %s.dp\n", pascalCase(tok.Name), dimensionNumber(dim))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (g *ComposeGenerator) renderTheme(c *token.TokenCollection) string {
	var sb strings.Builder
	composeHeader(&sb, c, "Theme aggregate",
		"androidx.compose.ui.graphics.Color",
		"androidx.compose.ui.unit.dp")

	sb.WriteString("object ThemeTokens {\n")

	for _, tok := range c.TokensOfType(token.TypeShadow) {
		fmt.Fprintf(&sb, "    val %s = Shadow(offsetX = %s.dp, offsetY = %s.dp, blur = %s.dp, spread = %s.dp, color = Color(0x%s))\n",
			pascalCase(tok.Name),
			dimensionNumber(stringField(tok.Value, "offsetX")),
			dimensionNumber(stringField(tok.Value, "offsetY")),
			dimensionNumber(stringField(tok.Value, "blur")),
			dimensionNumber(stringField(tok.Value, "spread")),
			packedARGB(stringField(tok.Value, "color")))
	}

	for _, tok := range c.TokensOfType(token.TypeBorder) {
		fmt.Fprintf(&sb, "    val %s = Border(width = %s.dp, style = %q, color = Color(0x%s))\n",
			pascalCase(tok.Name),
			dimensionNumber(stringField(tok.Value, "width")),
			stringField(tok.Value, "style"),
			packedARGB(stringField(tok.Value, "color")))
	}

	for _, tok := range c.TokensOfType(token.TypeOpacity) {
		fmt.Fprintf(&sb, "    const val %s = %.2ff\n", pascalCase(tok.Name), floatValue(tok.Value))
	}

	sb.WriteString("}\n\n")
	sb.WriteString("data class Shadow(val offsetX: androidx.compose.ui.unit.Dp, val offsetY: androidx.compose.ui.unit.Dp, val blur: androidx.compose.ui.unit.Dp, val spread: androidx.compose.ui.unit.Dp, val color: Color)\n")
	sb.WriteString("data class Border(val width: androidx.compose.ui.unit.Dp, val style: String, val color: Color)\n")
	return sb.String()
}

// packedARGB renders a canonical hex color as the AARRGGBB payload of a
// packed Compose color literal.
func packedARGB(hex string) string {
	r, g, b, a := channelInts(hex)
	return fmt.Sprintf("%02X%02X%02X%02X", a, r, g, b)
}
