package report

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/token"
)

// ToMarkdown renders a token collection as a human-readable overview,
// grouped by token type with the canonical values spelled out. The document
// sits next to the JSON reports for reviewers who want the design system at
// a glance.
func ToMarkdown(c *token.TokenCollection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Design Tokens - %s\n\n", c.Name))
	sb.WriteString(fmt.Sprintf("Version %s, extracted from %s. %d token(s).\n\n", c.Version, c.Source, len(c.Tokens)))

	if colors := c.TokensOfType(token.TypeColor); len(colors) > 0 {
		sb.WriteString("## Colors\n\n")
		sb.WriteString("| Token | Value | Luminance | WCAG AA |\n")
		sb.WriteString("|-------|-------|-----------|--------|\n")
		for _, tok := range colors {
			sb.WriteString(fmt.Sprintf("| `%s` | `%v` | %s | %s |\n",
				tok.Name, tok.Value, tok.Attributes["luminance"], tok.Attributes["wcag_aa_normal"]))
		}
		sb.WriteString("\n")
	}

	if typo := c.TokensOfType(token.TypeTypography); len(typo) > 0 {
		sb.WriteString("## Typography\n\n")
		sb.WriteString("```css\n")
		for _, tok := range typo {
			obj, ok := tok.Value.(map[string]any)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("/* %s */\n", tok.Name))
			sb.WriteString(fmt.Sprintf("--typography-%s-font-family: %v;\n", tok.Name, obj["fontFamily"]))
			sb.WriteString(fmt.Sprintf("--typography-%s-font-size: %v;\n", tok.Name, obj["fontSize"]))
			sb.WriteString(fmt.Sprintf("--typography-%s-font-weight: %v;\n\n", tok.Name, obj["fontWeight"]))
		}
		sb.WriteString("```\n\n")
	}

	dims := append(c.TokensOfType(token.TypeSpacing), c.TokensOfType(token.TypeSizing)...)
	if len(dims) > 0 {
		sb.WriteString("## Spacing & Sizing\n\n")
		sb.WriteString("```css\n")
		for _, tok := range dims {
			sb.WriteString(fmt.Sprintf("--%s-%s: %v;\n", tok.Type, tok.Name, tok.Value))
		}
		sb.WriteString("```\n\n")
	}

	if shadows := c.TokensOfType(token.TypeShadow); len(shadows) > 0 {
		sb.WriteString("## Shadows\n\n")
		sb.WriteString("```css\n")
		for _, tok := range shadows {
			obj, ok := tok.Value.(map[string]any)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("--shadow-%s: %v %v %v %v %v;\n",
				tok.Name, obj["offsetX"], obj["offsetY"], obj["blur"], obj["spread"], obj["color"]))
		}
		sb.WriteString("```\n\n")
	}

	rest := append(c.TokensOfType(token.TypeBorder), append(c.TokensOfType(token.TypeOpacity), c.TokensOfType(token.TypeOther)...)...)
	if len(rest) > 0 {
		sb.WriteString("## Other Tokens\n\n")
		sb.WriteString("| Token | Type | Value |\n")
		sb.WriteString("|-------|------|-------|\n")
		for _, tok := range rest {
			sb.WriteString(fmt.Sprintf("| `%s` | %s | `%v` |\n", tok.Name, tok.Type, tok.Value))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
