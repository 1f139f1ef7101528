package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/token-sync/pkg/cache"
	"github.com/hellenic-development/token-sync/pkg/token"
)

func newEngine(opts ...Option) *Engine {
	opts = append([]Option{WithColorCache(cache.New[string, string](128, time.Minute))}, opts...)
	return New(opts...)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "brand-primary", "brand-primary"},
		{"mixed case and spaces", "Brand Primary Color", "brand-primary-color"},
		{"repeated separators", "brand--primary__color", "brand-primary-color"},
		{"leading and trailing junk", "--brand/primary--", "brand-primary"},
		{"starts with digit", "2xl-spacing", "token-2xl-spacing"},
		{"empty", "", "unnamed-token"},
		{"only separators", "---", "unnamed-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeColorValues(t *testing.T) {
	e := newEngine()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"rgb function", "rgb(255,0,0)", "#FF0000"},
		{"short hex", "#f00", "#FF0000"},
		{"long hex lowercase", "#a1b2c3", "#A1B2C3"},
		{"hex with opaque alpha", "#a1b2c3ff", "#A1B2C3"},
		{"hex with alpha", "#a1b2c380", "#A1B2C380"},
		{"rgba with alpha", "rgba(0, 0, 0, 0.5)", "#00000080"},
		{"named color", "rebeccapurple", "#663399"},
		{"channel object", map[string]any{"r": 1.0, "g": 0.0, "b": 0.0}, "#FF0000"},
		{"channel object with alpha", map[string]any{"r": 0.0, "g": 0.0, "b": 0.0, "a": 0.5}, "#00000080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.normalizeColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := e.normalizeColor("not-a-color")
	assert.Error(t, err)
}

func TestNormalizeOpacity(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"50", 0.5},
		{"0.75", 0.75},
		{"150", 1.0},
		{0.3, 0.3},
		{100, 1.0},
	}

	for _, tt := range tests {
		got, err := normalizeOpacity(tt.in)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "opacity %v", tt.in)
	}
}

func TestNormalizeDimension(t *testing.T) {
	tests := []struct {
		in      any
		want    string
		wantErr bool
	}{
		{"16", "16px", false},
		{"16px", "16px", false},
		{"1.5rem", "1.5rem", false},
		{" 24 px", "24px", false},
		{8, "8px", false},
		{"4.0px", "4px", false},
		{"10parsecs", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeDimension(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "dimension %v", tt.in)
			continue
		}
		require.NoError(t, err, "dimension %v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalizeTypographyDefaults(t *testing.T) {
	e := newEngine()

	got, err := e.normalizeTypography(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "inherit", got["fontFamily"])
	assert.Equal(t, "16px", got["fontSize"])
	assert.Equal(t, 400, got["fontWeight"])
	assert.NotContains(t, got, "lineHeight")

	got, err = e.normalizeTypography(map[string]any{
		"family":     "Inter",
		"size":       "24",
		"weight":     "bold",
		"lineHeight": "32px",
	})
	require.NoError(t, err)
	assert.Equal(t, "Inter", got["fontFamily"])
	assert.Equal(t, "24px", got["fontSize"])
	assert.Equal(t, 700, got["fontWeight"])
	assert.Equal(t, "32px", got["lineHeight"])
}

func TestNormalizeShadowShorthand(t *testing.T) {
	e := newEngine()

	got, err := e.normalizeShadow("2px 4px 8px 1px rgba(0,0,0,0.25)")
	require.NoError(t, err)
	assert.Equal(t, "2px", got["offsetX"])
	assert.Equal(t, "4px", got["offsetY"])
	assert.Equal(t, "8px", got["blur"])
	assert.Equal(t, "1px", got["spread"])
	assert.Equal(t, "#00000040", got["color"])
}

func TestNormalizeCollection(t *testing.T) {
	e := newEngine()

	raw := &token.TokenCollection{
		Name:    "demo",
		Version: "2.1.0",
		Source:  "figma",
		Tokens: []token.DesignToken{
			{Name: "Primary Color", Type: "fill", Value: "rgb(255,0,0)"},
			{Name: "broken", Type: "color", Value: "definitely-not-a-color"},
			{Name: "Body Text", Type: "font", Value: map[string]any{"size": "14px"}},
			{Name: "gap/large", Type: "space", Value: "24"},
		},
	}

	got, warnings, err := e.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "broken")
	require.Len(t, got.Tokens, 3)

	byName := make(map[string]token.DesignToken)
	for _, tok := range got.Tokens {
		byName[tok.Name] = tok
	}

	primary := byName["primary-color"]
	assert.Equal(t, token.TypeColor, primary.Type)
	assert.Equal(t, "#FF0000", primary.Value)
	assert.Contains(t, primary.Tags, "primary")
	assert.Equal(t, "true", primary.Attributes["wcag_aa_normal"])

	body := byName["body-text"]
	assert.Equal(t, token.TypeTypography, body.Type)
	assert.Equal(t, "small", body.Attributes["font_size_category"])

	gap := byName["gap-large"]
	assert.Equal(t, "24px", gap.Value)
	assert.Contains(t, gap.Tags, "large")
}

func TestNormalizeEmptyResultFails(t *testing.T) {
	e := newEngine()

	_, _, err := e.Normalize(&token.TokenCollection{
		Tokens: []token.DesignToken{
			{Name: "bad", Type: "color", Value: "nope"},
		},
	})
	assert.Error(t, err)
}

func TestNormalizeIdempotent(t *testing.T) {
	e := newEngine(WithDarkMode(true))

	raw := &token.TokenCollection{
		Name:    "demo",
		Version: "1.0.0",
		Tokens: []token.DesignToken{
			{Name: "Primary", Type: "colour", Value: "#FAFAFA"},
			{Name: "Accent!", Type: "color", Value: "rgb(10, 20, 30)"},
			{Name: "Heading", Type: "text", Value: map[string]any{"size": 28, "weight": "semibold"}},
			{Name: "radius", Type: "border-radius", Value: "4px solid #333"},
			{Name: "fade", Type: "alpha", Value: "80"},
		},
	}

	once, _, err := e.Normalize(raw)
	require.NoError(t, err)
	twice, _, err := e.Normalize(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestDarkModeVariants(t *testing.T) {
	e := newEngine(WithDarkMode(true))

	raw := &token.TokenCollection{
		Tokens: []token.DesignToken{
			{Name: "light-bg", Type: "color", Value: "#FFFFFF"},
			{Name: "ink", Type: "color", Value: "#101010"},
		},
	}

	got, _, err := e.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, got.Tokens, 4)

	byName := make(map[string]token.DesignToken)
	for _, tok := range got.Tokens {
		byName[tok.Name] = tok
	}

	// White has luminance above 0.5, so the variant is darkened by 0.3.
	lightDark := byName["light-bg-dark"]
	assert.Equal(t, "#4D4D4D", lightDark.Value)
	assert.Contains(t, lightDark.Tags, "dark-mode")
	assert.Contains(t, lightDark.Tags, "computed")
	assert.Equal(t, "light-bg", lightDark.Attributes["base_token"])

	// 0x10 * 1.7 = 27.2, rounded to 27 = 0x1B.
	inkDark := byName["ink-dark"]
	assert.Equal(t, "#1B1B1B", inkDark.Value)
}
