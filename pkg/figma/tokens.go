package figma

import (
	"context"
	"fmt"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/token"
)

// Connector pulls a Figma file and flattens its node tree into a raw token
// collection. Values are kept close to the wire encoding (channel objects,
// pixel floats); canonicalization is the normalizer's job.
type Connector struct {
	client  *Client
	fileURL string
}

// NewConnector builds a connector for a single Figma file URL.
func NewConnector(accessToken, fileURL string) *Connector {
	return &Connector{
		client:  NewClient(accessToken),
		fileURL: fileURL,
	}
}

// Platform reports the design platform identifier.
func (c *Connector) Platform() string { return "figma" }

// ExtractTokens fetches the configured file and walks its document tree.
func (c *Connector) ExtractTokens(ctx context.Context) (*token.TokenCollection, error) {
	fileKey, err := ExtractFileKey(c.fileURL)
	if err != nil {
		return nil, err
	}

	fileResp, err := c.client.GetFile(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetching file %s: %w", fileKey, err)
	}

	return CollectTokens(fileResp), nil
}

// CollectTokens walks a file response and emits one raw token per design
// decision found on the node tree: solid fills become colors, text styles
// become typography, auto-layout padding and item spacing become spacing,
// strokes become borders, corner radii become sizing, and shadow effects
// become shadows. The first node to claim a token name wins; later
// duplicates are dropped.
func CollectTokens(resp *FileResponse) *token.TokenCollection {
	w := &walker{seen: make(map[string]bool)}
	w.visit(&resp.Document)

	return &token.TokenCollection{
		Name:    resp.Name,
		Version: resp.Version,
		Source:  "figma",
		Tokens:  w.tokens,
	}
}

type walker struct {
	tokens []token.DesignToken
	seen   map[string]bool
}

func (w *walker) visit(node *Node) {
	w.collectFills(node)
	w.collectStrokes(node)
	w.collectTypography(node)
	w.collectLayout(node)
	w.collectEffects(node)

	for i := range node.Children {
		w.visit(&node.Children[i])
	}
}

func (w *walker) add(t token.DesignToken) {
	if w.seen[t.Name] {
		return
	}
	w.seen[t.Name] = true
	w.tokens = append(w.tokens, t)
}

func (w *walker) collectFills(node *Node) {
	if node.BackgroundColor != nil {
		w.add(token.DesignToken{
			Name:     node.Name + " background",
			Type:     token.TypeColor,
			Category: "background",
			Value:    channelObject(node.BackgroundColor),
		})
	}

	for _, fill := range node.Fills {
		if fill.Type != "SOLID" || fill.Color == nil || !fill.Visible {
			continue
		}
		w.add(token.DesignToken{
			Name:     node.Name,
			Type:     token.TypeColor,
			Category: colorCategory(node.Name),
			Value:    channelObject(fill.Color),
		})
		if fill.Opacity > 0 && fill.Opacity < 1 {
			w.add(token.DesignToken{
				Name:     node.Name + " opacity",
				Type:     token.TypeOpacity,
				Category: "opacity",
				Value:    fill.Opacity,
			})
		}
		// Only the first visible solid fill carries the node's color.
		break
	}
}

func (w *walker) collectStrokes(node *Node) {
	for _, stroke := range node.Strokes {
		if stroke.Type != "SOLID" || stroke.Color == nil || !stroke.Visible {
			continue
		}
		value := map[string]any{
			"style": "solid",
			"color": channelObject(stroke.Color),
		}
		if node.StrokeWeight > 0 {
			value["width"] = node.StrokeWeight
		}
		w.add(token.DesignToken{
			Name:     node.Name + " border",
			Type:     token.TypeBorder,
			Category: "border",
			Value:    value,
		})
		break
	}

	if node.CornerRadius > 0 {
		w.add(token.DesignToken{
			Name:     node.Name + " radius",
			Type:     token.TypeSizing,
			Category: "radius",
			Value:    node.CornerRadius,
		})
	}
}

func (w *walker) collectTypography(node *Node) {
	if node.Style == nil || node.Style.FontSize <= 0 {
		return
	}

	value := map[string]any{
		"fontSize": node.Style.FontSize,
	}
	if node.Style.FontFamily != "" {
		value["fontFamily"] = node.Style.FontFamily
	}
	if node.Style.FontWeight > 0 {
		value["fontWeight"] = node.Style.FontWeight
	}
	if node.Style.LineHeightPx > 0 {
		value["lineHeight"] = node.Style.LineHeightPx
	}
	if node.Style.LetterSpacing != 0 {
		value["letterSpacing"] = node.Style.LetterSpacing
	}

	w.add(token.DesignToken{
		Name:     node.Name,
		Type:     token.TypeTypography,
		Category: "typography",
		Value:    value,
	})
}

func (w *walker) collectLayout(node *Node) {
	paddings := map[string]float64{
		"padding-left":   node.PaddingLeft,
		"padding-right":  node.PaddingRight,
		"padding-top":    node.PaddingTop,
		"padding-bottom": node.PaddingBottom,
	}
	for _, side := range []string{"padding-left", "padding-right", "padding-top", "padding-bottom"} {
		if paddings[side] > 0 {
			w.add(token.DesignToken{
				Name:     node.Name + " " + side,
				Type:     token.TypeSpacing,
				Category: "spacing",
				Value:    paddings[side],
			})
		}
	}

	if node.ItemSpacing > 0 {
		w.add(token.DesignToken{
			Name:     node.Name + " gap",
			Type:     token.TypeSpacing,
			Category: "spacing",
			Value:    node.ItemSpacing,
		})
	}
}

func (w *walker) collectEffects(node *Node) {
	for _, effect := range node.Effects {
		if (effect.Type != "DROP_SHADOW" && effect.Type != "INNER_SHADOW") || !effect.Visible {
			continue
		}

		value := map[string]any{
			"blur": effect.Radius,
		}
		if effect.Offset != nil {
			value["x"] = effect.Offset.X
			value["y"] = effect.Offset.Y
		}
		if effect.Spread != 0 {
			value["spread"] = effect.Spread
		}
		if effect.Color != nil {
			value["color"] = channelObject(effect.Color)
		}

		t := token.DesignToken{
			Name:     node.Name + " shadow",
			Type:     token.TypeShadow,
			Category: "shadow",
			Value:    value,
		}
		if effect.Type == "INNER_SHADOW" {
			t.Tags = []string{"inner"}
		}
		w.add(t)
		break
	}
}

// colorCategory buckets a fill color by keywords in the node name, falling
// back to the generic palette bucket.
func colorCategory(nodeName string) string {
	name := strings.ToLower(nodeName)

	switch {
	case strings.Contains(name, "primary"):
		return "primary"
	case strings.Contains(name, "secondary"):
		return "secondary"
	case strings.Contains(name, "background"), strings.Contains(name, "bg"):
		return "background"
	case strings.Contains(name, "text"):
		return "text"
	case strings.Contains(name, "success"), strings.Contains(name, "error"),
		strings.Contains(name, "warning"), strings.Contains(name, "info"):
		return "status"
	case strings.Contains(name, "border"):
		return "border"
	default:
		return "palette"
	}
}

func channelObject(c *Color) map[string]any {
	return map[string]any{"r": c.R, "g": c.G, "b": c.B, "a": c.A}
}
