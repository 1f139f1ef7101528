// Package generator renders canonical token collections into platform
// artifact files. Three interchangeable backends exist: swift (iOS), compose
// (Android/Jetpack Compose) and css (web stylesheets in css, scss or less
// dialects). Every backend produces one artifact per logical group (colors,
// typography, spacing, theme aggregate), preserving custom sections recovered
// from the previous artifact on disk. Output is deterministic: the same
// collection and the same prior sections always produce identical bytes.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// Config carries per-run generation settings.
type Config struct {
	// OutputDir is where artifact files are written.
	OutputDir string
	// Strategy selects how previously extracted custom sections are handled.
	Strategy sections.Strategy
	// Dialect selects the stylesheet sub-template (css, scss, less); only
	// the css backend reads it.
	Dialect string
}

// Generator renders one platform's artifact set.
type Generator interface {
	// Platform returns the backend identifier (ios, android, web).
	Platform() string
	// Generate renders every artifact for the collection and writes the
	// files under cfg.OutputDir.
	Generate(c *token.TokenCollection, cfg Config) (*token.GenerationResult, error)
}

// For returns the backend registered for the given target platform.
func For(platform string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "ios", "swift":
		return &SwiftGenerator{}, nil
	case "android", "compose":
		return &ComposeGenerator{}, nil
	case "web", "css":
		return &CSSGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown target platform %q", platform)
	}
}

// artifact is one logical output file before merging.
type artifact struct {
	fileName string
	render   func(c *token.TokenCollection) string
}

// generateAll runs the shared per-artifact pipeline: read the previous file,
// recover its custom sections, render fresh content, merge the sections back
// in and overwrite the file.
func generateAll(c *token.TokenCollection, cfg Config, platform string, d sections.Delimiter, artifacts []artifact) (*token.GenerationResult, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	result := &token.GenerationResult{
		Platform: platform,
		Metadata: map[string]string{
			"tokens": fmt.Sprintf("%d", len(c.Tokens)),
		},
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.fileName)

		previous, err := readExisting(path)
		if err != nil {
			return failed(result, fmt.Errorf("read existing %s: %w", a.fileName, err))
		}

		preserved := sections.Extract(previous, d)
		merged := sections.Merge(a.render(c), preserved, d, cfg.Strategy)
		if cfg.Strategy == sections.StrategyOverwrite {
			preserved = nil
		}

		if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
			return failed(result, fmt.Errorf("write %s: %w", a.fileName, err))
		}

		result.Files = append(result.Files, token.GeneratedFile{
			FilePath:          path,
			Content:           merged,
			HasCustomSections: len(preserved) > 0,
			CustomSections:    preserved,
		})
	}

	result.Success = true
	return result, nil
}

func failed(result *token.GenerationResult, err error) (*token.GenerationResult, error) {
	result.Success = false
	result.Error = err.Error()
	return result, err
}

// readExisting returns the previous artifact content, or "" when the file
// does not exist yet.
func readExisting(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// camelCase converts a lower-kebab token name to lowerCamelCase.
func camelCase(kebab string) string {
	parts := strings.Split(kebab, "-")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return sb.String()
}

// pascalCase converts a lower-kebab token name to UpperCamelCase.
func pascalCase(kebab string) string {
	camel := camelCase(kebab)
	if camel == "" {
		return camel
	}
	return strings.ToUpper(camel[:1]) + camel[1:]
}

// dimensionNumber strips the unit from a canonical dimension string. Missing
// fields render as 0 so the output stays well-formed.
func dimensionNumber(dim string) string {
	n := strings.TrimRightFunc(dim, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if n == "" {
		return "0"
	}
	return n
}

// stringField reads a string key out of a canonical object value.
func stringField(v any, key string) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

// intField reads a numeric key out of a canonical object value. Values
// loaded back from JSON snapshots arrive as float64.
func intField(v any, key string) int {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	switch n := obj[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// floatValue reads a numeric token value (opacity).
func floatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
