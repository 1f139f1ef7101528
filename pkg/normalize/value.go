package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var dimensionPattern = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+)\s*([a-z%]*)$`)

// knownUnits are the CSS-style units a dimension may carry. Anything else is
// rejected so a typo cannot slip into generated artifacts.
var knownUnits = map[string]bool{
	"px": true, "pt": true, "em": true, "rem": true, "%": true,
	"vh": true, "vw": true, "dp": true, "sp": true, "ch": true, "ex": true,
}

// namedWeights maps typographic weight names onto the 100-900 numeric scale.
var namedWeights = map[string]int{
	"thin":        100,
	"hairline":    100,
	"extra-light": 200,
	"extralight":  200,
	"ultralight":  200,
	"light":       300,
	"normal":      400,
	"regular":     400,
	"book":        400,
	"medium":      500,
	"semi-bold":   600,
	"semibold":    600,
	"demibold":    600,
	"bold":        700,
	"extra-bold":  800,
	"extrabold":   800,
	"ultrabold":   800,
	"black":       900,
	"heavy":       900,
}

// normalizeDimension reduces a spacing/sizing value to a number-with-unit
// string. Bare numbers default to px.
func normalizeDimension(value any) (string, error) {
	switch v := value.(type) {
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			return "", fmt.Errorf("empty dimension value")
		}
		m := dimensionPattern.FindStringSubmatch(trimmed)
		if m == nil {
			return "", fmt.Errorf("unrecognized dimension %q", v)
		}
		unit := m[2]
		if unit == "" {
			unit = "px"
		}
		if !knownUnits[unit] {
			return "", fmt.Errorf("unknown dimension unit %q", unit)
		}
		return formatNumber(m[1]) + unit, nil
	default:
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("unsupported dimension value %T", value)
		}
		return trimFloat(f) + "px", nil
	}
}

// formatNumber re-renders a numeric literal without a trailing ".0" style
// fraction so output stays byte-stable across runs.
func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return trimFloat(f)
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normalizeTypography builds the canonical typography object: fontFamily,
// fontSize and fontWeight are always present, lineHeight and letterSpacing
// only when the source provided them.
func (e *Engine) normalizeTypography(value any) (map[string]any, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("typography value must be an object, got %T", value)
	}

	out := map[string]any{
		"fontFamily": "inherit",
		"fontSize":   "16px",
		"fontWeight": 400,
	}

	if raw := firstKey(obj, "fontFamily", "family", "font"); raw != nil {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			out["fontFamily"] = strings.TrimSpace(s)
		}
	}

	if raw := firstKey(obj, "fontSize", "size"); raw != nil {
		size, err := normalizeDimension(raw)
		if err != nil {
			return nil, fmt.Errorf("font size: %w", err)
		}
		out["fontSize"] = size
	}

	if raw := firstKey(obj, "fontWeight", "weight"); raw != nil {
		weight, err := normalizeWeight(raw)
		if err != nil {
			return nil, fmt.Errorf("font weight: %w", err)
		}
		out["fontWeight"] = weight
	}

	if raw := firstKey(obj, "lineHeight", "line-height"); raw != nil {
		lh, err := normalizeDimension(raw)
		if err == nil {
			out["lineHeight"] = lh
		} else if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			// Keyword line heights such as "normal" pass through untouched.
			out["lineHeight"] = strings.TrimSpace(s)
		}
	}

	if raw := firstKey(obj, "letterSpacing", "letter-spacing", "tracking"); raw != nil {
		if ls, err := normalizeDimension(raw); err == nil {
			out["letterSpacing"] = ls
		}
	}

	return out, nil
}

func normalizeWeight(raw any) (int, error) {
	switch v := raw.(type) {
	case string:
		key := strings.ToLower(strings.TrimSpace(v))
		if w, ok := namedWeights[key]; ok {
			return w, nil
		}
		n, err := strconv.Atoi(key)
		if err != nil {
			return 0, fmt.Errorf("unrecognized font weight %q", v)
		}
		return clampWeight(n), nil
	default:
		f, ok := toFloat(raw)
		if !ok {
			return 0, fmt.Errorf("unsupported font weight %T", raw)
		}
		return clampWeight(int(math.Round(f))), nil
	}
}

func clampWeight(w int) int {
	if w < 100 {
		return 100
	}
	if w > 900 {
		return 900
	}
	return w
}

// normalizeShadow canonicalizes a shadow object or a CSS box-shadow style
// shorthand into {offsetX, offsetY, blur, spread, color}.
func (e *Engine) normalizeShadow(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return e.shadowFromObject(v)
	case string:
		return e.shadowFromShorthand(v)
	default:
		return nil, fmt.Errorf("unsupported shadow value %T", value)
	}
}

func (e *Engine) shadowFromObject(obj map[string]any) (map[string]any, error) {
	out := map[string]any{
		"offsetX": "0px",
		"offsetY": "0px",
		"blur":    "0px",
		"spread":  "0px",
		"color":   "#000000",
	}

	dims := map[string][]string{
		"offsetX": {"offsetX", "x", "offset-x"},
		"offsetY": {"offsetY", "y", "offset-y"},
		"blur":    {"blur", "radius"},
		"spread":  {"spread"},
	}
	for canon, aliases := range dims {
		if raw := firstKey(obj, aliases...); raw != nil {
			d, err := normalizeDimension(raw)
			if err != nil {
				return nil, fmt.Errorf("shadow %s: %w", canon, err)
			}
			out[canon] = d
		}
	}

	if raw := firstKey(obj, "color"); raw != nil {
		c, err := e.normalizeColor(raw)
		if err != nil {
			return nil, fmt.Errorf("shadow color: %w", err)
		}
		out["color"] = c
	}

	return out, nil
}

// shadowFromShorthand parses "2px 4px 8px 1px rgba(0,0,0,0.2)" best-effort:
// dimensions fill offsetX, offsetY, blur, spread in order; the remainder is
// treated as the color.
func (e *Engine) shadowFromShorthand(s string) (map[string]any, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty shadow value")
	}

	// rgb()/rgba() functions contain spaces after commas in some encodings;
	// rejoin anything from the first non-dimension field onward.
	out := map[string]any{
		"offsetX": "0px",
		"offsetY": "0px",
		"blur":    "0px",
		"spread":  "0px",
		"color":   "#000000",
	}
	order := []string{"offsetX", "offsetY", "blur", "spread"}

	i := 0
	for i < len(fields) && i < len(order) {
		d, err := normalizeDimension(fields[i])
		if err != nil {
			break
		}
		out[order[i]] = d
		i++
	}
	if i == 0 {
		return nil, fmt.Errorf("shadow shorthand %q has no offsets", s)
	}

	if i < len(fields) {
		colorStr := strings.Join(fields[i:], "")
		c, err := e.normalizeColor(colorStr)
		if err != nil {
			return nil, fmt.Errorf("shadow color: %w", err)
		}
		out["color"] = c
	}

	return out, nil
}

// normalizeBorder canonicalizes a border object or "1px solid #000" style
// shorthand into {width, style, color}.
func (e *Engine) normalizeBorder(value any) (map[string]any, error) {
	out := map[string]any{
		"width": "1px",
		"style": "solid",
		"color": "#000000",
	}

	switch v := value.(type) {
	case map[string]any:
		if raw := firstKey(v, "width", "strokeWeight"); raw != nil {
			w, err := normalizeDimension(raw)
			if err != nil {
				return nil, fmt.Errorf("border width: %w", err)
			}
			out["width"] = w
		}
		if raw := firstKey(v, "style"); raw != nil {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				out["style"] = strings.ToLower(strings.TrimSpace(s))
			}
		}
		if raw := firstKey(v, "color"); raw != nil {
			c, err := e.normalizeColor(raw)
			if err != nil {
				return nil, fmt.Errorf("border color: %w", err)
			}
			out["color"] = c
		}
		return out, nil
	case string:
		for _, field := range strings.Fields(strings.TrimSpace(v)) {
			if d, err := normalizeDimension(field); err == nil {
				out["width"] = d
				continue
			}
			if c, err := e.normalizeColor(field); err == nil {
				out["color"] = c
				continue
			}
			out["style"] = strings.ToLower(field)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported border value %T", value)
	}
}

// normalizeOpacity reduces an opacity value to a float in [0,1]. Inputs above
// 1 are read as percentages, divided by 100, then clamped.
func normalizeOpacity(value any) (float64, error) {
	f, ok := toFloat(value)
	if !ok {
		return 0, fmt.Errorf("unsupported opacity value %T", value)
	}
	if f > 1 {
		f /= 100
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f, nil
}

// firstKey returns the first present value among the given key aliases.
func firstKey(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
