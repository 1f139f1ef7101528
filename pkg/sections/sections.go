// Package sections preserves hand-written code regions across full artifact
// regeneration. Each platform wraps protected regions in a line-oriented
// delimiter convention; extraction recovers them from the previous artifact
// and merge re-inserts them into freshly generated content ahead of the
// platform's anchor line. The round trip is the package's contract:
// extracting what merge inserted yields the original sections.
package sections

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/token"
)

const (
	preservedMarker = "Preserved"
	endMarker       = "End Custom Section"
	defaultName     = "Custom"

	ruleWidth = 74
)

// Delimiter describes one platform's comment syntax for protected regions
// and the predicate locating the merge insertion anchor in generated output.
type Delimiter struct {
	// CommentOpen starts a comment line, e.g. "//" or "/*".
	CommentOpen string
	// CommentClose terminates a comment line for block-comment syntaxes,
	// empty for line comments.
	CommentClose string
	// Anchor reports whether a generated line can serve as the insertion
	// point; sections are inserted immediately before the first match.
	Anchor func(line string) bool
}

// LineComment is the delimiter for languages with // comments.
func LineComment(anchor func(string) bool) Delimiter {
	return Delimiter{CommentOpen: "//", Anchor: anchor}
}

// BlockComment is the delimiter for stylesheet-style /* */ comments.
func BlockComment(anchor func(string) bool) Delimiter {
	return Delimiter{CommentOpen: "/*", CommentClose: "*/", Anchor: anchor}
}

// rule renders the horizontal rule line that opens and closes a region.
func (d Delimiter) rule() string {
	line := d.CommentOpen + " " + strings.Repeat("=", ruleWidth)
	if d.CommentClose != "" {
		line += " " + d.CommentClose
	}
	return line
}

// isRule reports whether a line is a region rule. Matching is loose on
// purpose: hand-edited files rarely keep the exact rule width.
func (d Delimiter) isRule(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, d.CommentOpen) {
		return false
	}
	return strings.Contains(trimmed, "==========")
}

// comment renders text as a single comment line.
func (d Delimiter) comment(text string) string {
	line := d.CommentOpen + " " + text
	if d.CommentClose != "" {
		line += " " + d.CommentClose
	}
	return line
}

// stripComment removes the comment syntax and surrounding space from a line.
func (d Delimiter) stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, d.CommentOpen)
	if d.CommentClose != "" {
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), d.CommentClose)
	}
	return strings.TrimSpace(trimmed)
}

// Extract scans file content for protected regions and returns them in file
// order. The scan is a two-state machine: OUTSIDE looks for a rule line
// immediately followed by a marker line containing "Preserved"; INSIDE
// accumulates body lines verbatim (minus the platform's own delimiter lines)
// until the end marker. A region still open at end of file yields nothing.
func Extract(content string, d Delimiter) []token.CustomSection {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	var out []token.CustomSection

	inside := false
	var current token.CustomSection
	var body []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !inside {
			if d.isRule(line) && i+1 < len(lines) && strings.Contains(lines[i+1], preservedMarker) {
				current = token.CustomSection{
					Name:      sectionName(lines[i+1], d),
					StartLine: i + 1,
				}
				body = body[:0]
				inside = true
				i++ // consume the marker line
			}
			continue
		}

		if strings.Contains(line, endMarker) {
			current.Content = strings.TrimSpace(strings.Join(body, "\n"))
			current.EndLine = i + 1
			out = append(out, current)
			inside = false
			continue
		}

		if d.isRule(line) {
			continue
		}
		body = append(body, line)
	}

	// An unterminated region is dropped silently.
	return out
}

// sectionName pulls the optional name out of a "<name> - Preserved" marker
// line, defaulting to "Custom".
func sectionName(marker string, d Delimiter) string {
	text := d.stripComment(marker)
	idx := strings.Index(text, "-")
	if idx <= 0 {
		return defaultName
	}
	name := strings.TrimSpace(text[:idx])
	if name == "" {
		return defaultName
	}
	return name
}

// Wrap renders a section in the delimiter convention, ready for insertion.
func Wrap(s token.CustomSection, d Delimiter) string {
	name := s.Name
	if name == "" {
		name = defaultName
	}
	var sb strings.Builder
	sb.WriteString(d.rule() + "\n")
	sb.WriteString(d.comment(name+" - "+preservedMarker) + "\n")
	sb.WriteString(s.Content + "\n")
	sb.WriteString(d.comment(endMarker) + "\n")
	sb.WriteString(d.rule() + "\n")
	return sb.String()
}

// Strategy selects how previously extracted sections are handled on merge.
type Strategy string

const (
	// StrategyPreserve re-inserts extracted sections into fresh output.
	StrategyPreserve Strategy = "preserve-custom"
	// StrategyOverwrite discards all extracted sections.
	StrategyOverwrite Strategy = "overwrite"
	// StrategyPrompt is accepted but not implemented; it behaves like
	// StrategyPreserve and the orchestrator logs a warning.
	StrategyPrompt Strategy = "prompt"
)

// ParseStrategy validates a strategy name, defaulting empty input to
// preserve-custom.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StrategyPreserve:
		return StrategyPreserve, nil
	case StrategyOverwrite:
		return StrategyOverwrite, nil
	case StrategyPrompt:
		return StrategyPrompt, nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q", raw)
	}
}

// Merge inserts sections into freshly generated content, in their original
// order, immediately before the first anchor line. When the generated content
// has no anchor line the sections are not inserted. The overwrite strategy
// discards sections entirely.
func Merge(generated string, secs []token.CustomSection, d Delimiter, strategy Strategy) string {
	if strategy == StrategyOverwrite || len(secs) == 0 {
		return generated
	}

	lines := strings.Split(generated, "\n")
	anchor := -1
	if d.Anchor != nil {
		for i, line := range lines {
			if d.Anchor(line) {
				anchor = i
				break
			}
		}
	}
	if anchor < 0 {
		return generated
	}

	var block strings.Builder
	for _, s := range secs {
		block.WriteString(Wrap(s, d))
		block.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(lines[:anchor], "\n"))
	if anchor > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(block.String())
	sb.WriteString(strings.Join(lines[anchor:], "\n"))
	return sb.String()
}

// Conflict records two same-named sections whose contents disagree.
type Conflict struct {
	Name  string
	HashA string
	HashB string
}

// Conflicts reports name collisions with differing content. Conflicts are
// surfaced for logging but never block a merge.
func Conflicts(secs []token.CustomSection) []Conflict {
	byName := make(map[string]string, len(secs))
	var out []Conflict
	for _, s := range secs {
		h := contentHash(s.Content)
		if prev, ok := byName[s.Name]; ok && prev != h {
			out = append(out, Conflict{Name: s.Name, HashA: prev, HashB: h})
			continue
		}
		byName[s.Name] = h
	}
	return out
}

func contentHash(content string) string {
	h := fnv.New64a()
	h.Write([]byte(content))
	return fmt.Sprintf("%016x", h.Sum64())
}
