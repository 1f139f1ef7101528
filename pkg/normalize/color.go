package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rgba holds 0-255 integer channels plus a 0-1 alpha.
type rgba struct {
	r, g, b int
	a       float64
}

var (
	hexPattern  = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbPattern  = regexp.MustCompile(`^rgba?\(\s*([0-9.]+)\s*,\s*([0-9.]+)\s*,\s*([0-9.]+)\s*(?:,\s*([0-9.]+%?)\s*)?\)$`)
)

// namedColors maps CSS color keywords to their hex values.
var namedColors = map[string]string{
	"aliceblue": "#F0F8FF", "antiquewhite": "#FAEBD7", "aqua": "#00FFFF",
	"aquamarine": "#7FFFD4", "azure": "#F0FFFF", "beige": "#F5F5DC",
	"bisque": "#FFE4C4", "black": "#000000", "blanchedalmond": "#FFEBCD",
	"blue": "#0000FF", "blueviolet": "#8A2BE2", "brown": "#A52A2A",
	"burlywood": "#DEB887", "cadetblue": "#5F9EA0", "chartreuse": "#7FFF00",
	"chocolate": "#D2691E", "coral": "#FF7F50", "cornflowerblue": "#6495ED",
	"cornsilk": "#FFF8DC", "crimson": "#DC143C", "cyan": "#00FFFF",
	"darkblue": "#00008B", "darkcyan": "#008B8B", "darkgoldenrod": "#B8860B",
	"darkgray": "#A9A9A9", "darkgreen": "#006400", "darkgrey": "#A9A9A9",
	"darkkhaki": "#BDB76B", "darkmagenta": "#8B008B", "darkolivegreen": "#556B2F",
	"darkorange": "#FF8C00", "darkorchid": "#9932CC", "darkred": "#8B0000",
	"darksalmon": "#E9967A", "darkseagreen": "#8FBC8F", "darkslateblue": "#483D8B",
	"darkslategray": "#2F4F4F", "darkslategrey": "#2F4F4F", "darkturquoise": "#00CED1",
	"darkviolet": "#9400D3", "deeppink": "#FF1493", "deepskyblue": "#00BFFF",
	"dimgray": "#696969", "dimgrey": "#696969", "dodgerblue": "#1E90FF",
	"firebrick": "#B22222", "floralwhite": "#FFFAF0", "forestgreen": "#228B22",
	"fuchsia": "#FF00FF", "gainsboro": "#DCDCDC", "ghostwhite": "#F8F8FF",
	"gold": "#FFD700", "goldenrod": "#DAA520", "gray": "#808080",
	"green": "#008000", "greenyellow": "#ADFF2F", "grey": "#808080",
	"honeydew": "#F0FFF0", "hotpink": "#FF69B4", "indianred": "#CD5C5C",
	"indigo": "#4B0082", "ivory": "#FFFFF0", "khaki": "#F0E68C",
	"lavender": "#E6E6FA", "lavenderblush": "#FFF0F5", "lawngreen": "#7CFC00",
	"lemonchiffon": "#FFFACD", "lightblue": "#ADD8E6", "lightcoral": "#F08080",
	"lightcyan": "#E0FFFF", "lightgoldenrodyellow": "#FAFAD2", "lightgray": "#D3D3D3",
	"lightgreen": "#90EE90", "lightgrey": "#D3D3D3", "lightpink": "#FFB6C1",
	"lightsalmon": "#FFA07A", "lightseagreen": "#20B2AA", "lightskyblue": "#87CEFA",
	"lightslategray": "#778899", "lightslategrey": "#778899", "lightsteelblue": "#B0C4DE",
	"lightyellow": "#FFFFE0", "lime": "#00FF00", "limegreen": "#32CD32",
	"linen": "#FAF0E6", "magenta": "#FF00FF", "maroon": "#800000",
	"mediumaquamarine": "#66CDAA", "mediumblue": "#0000CD", "mediumorchid": "#BA55D3",
	"mediumpurple": "#9370DB", "mediumseagreen": "#3CB371", "mediumslateblue": "#7B68EE",
	"mediumspringgreen": "#00FA9A", "mediumturquoise": "#48D1CC", "mediumvioletred": "#C71585",
	"midnightblue": "#191970", "mintcream": "#F5FFFA", "mistyrose": "#FFE4E1",
	"moccasin": "#FFE4B5", "navajowhite": "#FFDEAD", "navy": "#000080",
	"oldlace": "#FDF5E6", "olive": "#808000", "olivedrab": "#6B8E23",
	"orange": "#FFA500", "orangered": "#FF4500", "orchid": "#DA70D6",
	"palegoldenrod": "#EEE8AA", "palegreen": "#98FB98", "paleturquoise": "#AFEEEE",
	"palevioletred": "#DB7093", "papayawhip": "#FFEFD5", "peachpuff": "#FFDAB9",
	"peru": "#CD853F", "pink": "#FFC0CB", "plum": "#DDA0DD",
	"powderblue": "#B0E0E6", "purple": "#800080", "rebeccapurple": "#663399",
	"red": "#FF0000", "rosybrown": "#BC8F8F", "royalblue": "#4169E1",
	"saddlebrown": "#8B4513", "salmon": "#FA8072", "sandybrown": "#F4A460",
	"seagreen": "#2E8B57", "seashell": "#FFF5EE", "sienna": "#A0522D",
	"silver": "#C0C0C0", "skyblue": "#87CEEB", "slateblue": "#6A5ACD",
	"slategray": "#708090", "slategrey": "#708090", "snow": "#FFFAFA",
	"springgreen": "#00FF7F", "steelblue": "#4682B4", "tan": "#D2B48C",
	"teal": "#008080", "thistle": "#D8BFD8", "tomato": "#FF6347",
	"turquoise": "#40E0D0", "violet": "#EE82EE", "wheat": "#F5DEB3",
	"white": "#FFFFFF", "whitesmoke": "#F5F5F5", "yellow": "#FFFF00",
	"yellowgreen": "#9ACD32",
}

// normalizeColor reduces any supported color encoding to the canonical
// uppercase #RRGGBB (or #RRGGBBAA when alpha < 1) form. Supported inputs:
// 3/6/8-digit hex strings, rgb()/rgba() functions, CSS color keywords, and
// channel objects with 0-1 float r/g/b (and optional a) values.
func (e *Engine) normalizeColor(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return e.parseColorString(v)
	case map[string]any:
		return parseColorObject(v)
	default:
		return "", fmt.Errorf("unsupported color value %T", value)
	}
}

func (e *Engine) parseColorString(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("empty color value")
	}

	if cached, ok := e.colors.Get(key); ok {
		return cached, nil
	}

	hex, err := parseColorString(key)
	if err != nil {
		return "", err
	}

	e.colors.Add(key, hex)
	return hex, nil
}

func parseColorString(key string) (string, error) {
	if m := hexPattern.FindStringSubmatch(key); m != nil {
		return expandHex(m[1]), nil
	}

	if m := rgbPattern.FindStringSubmatch(key); m != nil {
		c, err := parseRGBFunc(m)
		if err != nil {
			return "", err
		}
		return c.hex(), nil
	}

	if hex, ok := namedColors[key]; ok {
		return hex, nil
	}

	return "", fmt.Errorf("unrecognized color value %q", key)
}

// expandHex turns a bare 3/6/8-digit hex payload into canonical form.
// A fully opaque 8-digit value collapses to 6 digits.
func expandHex(payload string) string {
	payload = strings.ToUpper(payload)
	if len(payload) == 3 {
		var sb strings.Builder
		for _, ch := range payload {
			sb.WriteRune(ch)
			sb.WriteRune(ch)
		}
		payload = sb.String()
	}
	if len(payload) == 8 && strings.HasSuffix(payload, "FF") {
		payload = payload[:6]
	}
	return "#" + payload
}

func parseRGBFunc(m []string) (rgba, error) {
	c := rgba{a: 1}
	channels := []*int{&c.r, &c.g, &c.b}
	for i, ch := range channels {
		f, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return c, fmt.Errorf("invalid rgb channel %q: %w", m[i+1], err)
		}
		*ch = clampChannel(int(math.Round(f)))
	}
	if m[4] != "" {
		alphaStr := m[4]
		percent := strings.HasSuffix(alphaStr, "%")
		alphaStr = strings.TrimSuffix(alphaStr, "%")
		a, err := strconv.ParseFloat(alphaStr, 64)
		if err != nil {
			return c, fmt.Errorf("invalid alpha %q: %w", m[4], err)
		}
		if percent {
			a /= 100
		}
		c.a = math.Max(0, math.Min(1, a))
	}
	return c, nil
}

// parseColorObject handles the {r, g, b} channel-object encoding design APIs
// emit, with float channels in the 0-1 range.
func parseColorObject(obj map[string]any) (string, error) {
	c := rgba{a: 1}
	for _, key := range []string{"r", "g", "b"} {
		raw, ok := obj[key]
		if !ok {
			return "", fmt.Errorf("color object missing channel %q", key)
		}
		f, ok := toFloat(raw)
		if !ok {
			return "", fmt.Errorf("color object channel %q is not numeric", key)
		}
		ch := clampChannel(int(math.Round(f * 255)))
		switch key {
		case "r":
			c.r = ch
		case "g":
			c.g = ch
		case "b":
			c.b = ch
		}
	}
	if raw, ok := obj["a"]; ok {
		if f, ok := toFloat(raw); ok {
			c.a = math.Max(0, math.Min(1, f))
		}
	}
	return c.hex(), nil
}

func (c rgba) hex() string {
	if c.a < 1 {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.r, c.g, c.b, clampChannel(int(math.Round(c.a*255))))
	}
	return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// hexChannels splits a canonical hex color back into integer channels.
func hexChannels(hex string) (r, g, b int, ok bool) {
	payload := strings.TrimPrefix(hex, "#")
	if len(payload) != 6 && len(payload) != 8 {
		return 0, 0, 0, false
	}
	parse := func(s string) int {
		n, _ := strconv.ParseInt(s, 16, 32)
		return int(n)
	}
	return parse(payload[0:2]), parse(payload[2:4]), parse(payload[4:6]), true
}

// luminance computes the weighted relative luminance of a canonical hex
// color, with channels in the 0-1 range.
func luminance(hex string) (float64, bool) {
	r, g, b, ok := hexChannels(hex)
	if !ok {
		return 0, false
	}
	return 0.299*float64(r)/255 + 0.587*float64(g)/255 + 0.114*float64(b)/255, true
}

// contrastRatio computes (lighter+0.05)/(darker+0.05) between two luminances.
func contrastRatio(l1, l2 float64) float64 {
	lighter, darker := l1, l2
	if darker > lighter {
		lighter, darker = darker, lighter
	}
	return (lighter + 0.05) / (darker + 0.05)
}

// scaleColor multiplies each channel of a canonical hex color by factor,
// clamping to 0-255. The alpha digits, if present, are carried through.
func scaleColor(hex string, factor float64) string {
	r, g, b, ok := hexChannels(hex)
	if !ok {
		return hex
	}
	scaled := rgba{
		r: clampChannel(int(math.Round(float64(r) * factor))),
		g: clampChannel(int(math.Round(float64(g) * factor))),
		b: clampChannel(int(math.Round(float64(b) * factor))),
		a: 1,
	}
	out := fmt.Sprintf("#%02X%02X%02X", scaled.r, scaled.g, scaled.b)
	if payload := strings.TrimPrefix(hex, "#"); len(payload) == 8 {
		out += payload[6:8]
	}
	return out
}
