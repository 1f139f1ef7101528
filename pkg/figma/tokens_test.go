package figma

import (
	"testing"

	"github.com/hellenic-development/token-sync/pkg/token"
)

func sampleFile() *FileResponse {
	return &FileResponse{
		Name:    "Checkout Redesign",
		Version: "4.2.0",
		Document: Node{
			ID:   "0:0",
			Name: "Document",
			Type: "DOCUMENT",
			Children: []Node{
				{
					ID:   "1:1",
					Name: "Primary Button",
					Type: "FRAME",
					Fills: []Paint{
						{Type: "SOLID", Visible: true, Opacity: 1, Color: &Color{R: 0, G: 0.48, B: 1, A: 1}},
					},
					Strokes: []Paint{
						{Type: "SOLID", Visible: true, Opacity: 1, Color: &Color{R: 0.1, G: 0.1, B: 0.1, A: 1}},
					},
					StrokeWeight: 2,
					CornerRadius: 8,
					PaddingLeft:  16,
					PaddingRight: 16,
					ItemSpacing:  8,
					Effects: []Effect{
						{
							Type:    "DROP_SHADOW",
							Visible: true,
							Radius:  12,
							Offset:  &Vector{X: 0, Y: 4},
							Color:   &Color{R: 0, G: 0, B: 0, A: 0.25},
						},
					},
					Children: []Node{
						{
							ID:         "1:2",
							Name:       "Button Label",
							Type:       "TEXT",
							Characters: "Pay now",
							Style: &TypeStyle{
								FontFamily:   "Inter",
								FontWeight:   600,
								FontSize:     16,
								LineHeightPx: 24,
							},
						},
					},
				},
				{
					ID:   "1:3",
					Name: "Primary Button",
					Type: "FRAME",
					Fills: []Paint{
						{Type: "SOLID", Visible: true, Opacity: 1, Color: &Color{R: 1, G: 0, B: 0, A: 1}},
					},
				},
				{
					ID:   "1:4",
					Name: "Hidden Layer",
					Type: "RECTANGLE",
					Fills: []Paint{
						{Type: "SOLID", Visible: false, Opacity: 1, Color: &Color{R: 1, G: 1, B: 1, A: 1}},
					},
				},
			},
		},
	}
}

func TestCollectTokens(t *testing.T) {
	coll := CollectTokens(sampleFile())

	if coll.Name != "Checkout Redesign" {
		t.Errorf("collection name = %q, want %q", coll.Name, "Checkout Redesign")
	}
	if coll.Version != "4.2.0" {
		t.Errorf("collection version = %q, want %q", coll.Version, "4.2.0")
	}
	if coll.Source != "figma" {
		t.Errorf("collection source = %q, want %q", coll.Source, "figma")
	}

	byName := make(map[string]token.DesignToken)
	for _, tok := range coll.Tokens {
		if _, dup := byName[tok.Name]; dup {
			t.Errorf("duplicate raw token name %q", tok.Name)
		}
		byName[tok.Name] = tok
	}

	fill, ok := byName["Primary Button"]
	if !ok {
		t.Fatal("missing fill token for Primary Button")
	}
	if fill.Type != token.TypeColor {
		t.Errorf("fill type = %q, want color", fill.Type)
	}
	if fill.Category != "primary" {
		t.Errorf("fill category = %q, want primary", fill.Category)
	}
	channels, ok := fill.Value.(map[string]any)
	if !ok {
		t.Fatalf("fill value is %T, want channel object", fill.Value)
	}
	if channels["b"] != 1.0 {
		t.Errorf("fill blue channel = %v, want 1", channels["b"])
	}

	border, ok := byName["Primary Button border"]
	if !ok {
		t.Fatal("missing border token")
	}
	borderVal := border.Value.(map[string]any)
	if borderVal["width"] != 2.0 {
		t.Errorf("border width = %v, want 2", borderVal["width"])
	}

	if _, ok := byName["Primary Button radius"]; !ok {
		t.Error("missing corner radius token")
	}
	if _, ok := byName["Primary Button padding-left"]; !ok {
		t.Error("missing padding token")
	}
	if _, ok := byName["Primary Button gap"]; !ok {
		t.Error("missing item spacing token")
	}

	shadow, ok := byName["Primary Button shadow"]
	if !ok {
		t.Fatal("missing shadow token")
	}
	shadowVal := shadow.Value.(map[string]any)
	if shadowVal["blur"] != 12.0 {
		t.Errorf("shadow blur = %v, want 12", shadowVal["blur"])
	}
	if shadowVal["y"] != 4.0 {
		t.Errorf("shadow y = %v, want 4", shadowVal["y"])
	}

	typ, ok := byName["Button Label"]
	if !ok {
		t.Fatal("missing typography token")
	}
	if typ.Type != token.TypeTypography {
		t.Errorf("label type = %q, want typography", typ.Type)
	}
	typVal := typ.Value.(map[string]any)
	if typVal["fontFamily"] != "Inter" {
		t.Errorf("font family = %v, want Inter", typVal["fontFamily"])
	}

	// Second "Primary Button" frame and the invisible fill contribute nothing.
	if _, ok := byName["Hidden Layer"]; ok {
		t.Error("invisible fill produced a token")
	}
}

func TestColorCategory(t *testing.T) {
	tests := []struct {
		nodeName string
		want     string
	}{
		{"Primary Button", "primary"},
		{"Secondary Accent", "secondary"},
		{"Page Background", "background"},
		{"Card BG", "background"},
		{"Body Text", "text"},
		{"Success Banner", "status"},
		{"Error Toast", "status"},
		{"Input Border", "border"},
		{"Rectangle 42", "palette"},
	}

	for _, tt := range tests {
		if got := colorCategory(tt.nodeName); got != tt.want {
			t.Errorf("colorCategory(%q) = %q, want %q", tt.nodeName, got, tt.want)
		}
	}
}

func TestConnectorPlatform(t *testing.T) {
	c := NewConnector("token", "https://www.figma.com/file/ABC123/Design")
	if c.Platform() != "figma" {
		t.Errorf("Platform() = %q, want figma", c.Platform())
	}
}
