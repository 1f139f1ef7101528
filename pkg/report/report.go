// Package report owns the pipeline's persisted state and its JSON report
// artifacts: the raw and processed token-collection snapshots used by change
// detection, the custom-sections inventory, the generation report and the
// tag-patterns report. Everything is plain JSON under configured directories;
// the snapshots are the only state that survives between runs.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

const (
	rawSnapshotFile       = "raw.json"
	processedSnapshotFile = "processed.json"
	inventoryFile         = "custom-sections-inventory.json"
	generationReportFile  = "generation-report.json"
	tagPatternsFile       = "tag-patterns.json"
	markdownSummaryFile   = "TOKENS.md"
)

// artifactPatterns are the doublestar globs the inventory scan applies to
// the output directory.
var artifactPatterns = []string{"**/*.swift", "**/*.kt", "**/*.css", "**/*.scss", "**/*.less"}

// Store reads and writes pipeline state. StateDir holds the cross-run
// snapshots, OutputDir the generated artifacts and reports.
type Store struct {
	StateDir  string
	OutputDir string
}

// NewStore creates a store rooted at the given directories.
func NewStore(stateDir, outputDir string) *Store {
	return &Store{StateDir: stateDir, OutputDir: outputDir}
}

// SaveRawSnapshot persists the pre-normalization extraction result.
func (s *Store) SaveRawSnapshot(c *token.TokenCollection) error {
	return s.writeJSON(s.StateDir, rawSnapshotFile, c)
}

// SaveProcessedSnapshot persists the normalized collection the next run's
// change detection compares against.
func (s *Store) SaveProcessedSnapshot(c *token.TokenCollection) error {
	return s.writeJSON(s.StateDir, processedSnapshotFile, c)
}

// LoadProcessedSnapshot returns the previously persisted normalized
// collection, or nil when no snapshot exists yet.
func (s *Store) LoadProcessedSnapshot() (*token.TokenCollection, error) {
	path := filepath.Join(s.StateDir, processedSnapshotFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var c token.TokenCollection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &c, nil
}

// InventoryEntry describes the custom sections found in one artifact file.
type InventoryEntry struct {
	Path     string   `json:"path"`
	Sections []string `json:"sections"`
}

// Inventory is the custom-sections report written after generation.
type Inventory struct {
	RunID     string           `json:"runId"`
	CreatedAt time.Time        `json:"createdAt"`
	Files     []InventoryEntry `json:"files"`
	Conflicts []string         `json:"conflicts,omitempty"`
}

// ScanInventory walks the output directory for artifact files, re-extracts
// their custom sections and writes the inventory report. Conflicts are scoped
// per file: same-named sections in different artifacts are unrelated (two
// files each carrying a default "Custom" section is normal). Conflicting
// sections are recorded, never fatal.
func (s *Store) ScanInventory(runID string) (*Inventory, error) {
	inv := &Inventory{RunID: runID, CreatedAt: time.Now().UTC()}

	fsys := os.DirFS(s.OutputDir)
	seen := make(map[string]bool)

	for _, pattern := range artifactPatterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			seen[rel] = true

			data, err := os.ReadFile(filepath.Join(s.OutputDir, rel))
			if err != nil {
				return nil, fmt.Errorf("read artifact %s: %w", rel, err)
			}

			secs := sections.Extract(string(data), delimiterFor(rel))
			entry := InventoryEntry{Path: rel}
			for _, sec := range secs {
				entry.Sections = append(entry.Sections, sec.Name)
			}
			for _, conflict := range sections.Conflicts(secs) {
				inv.Conflicts = append(inv.Conflicts,
					fmt.Sprintf("%s: section %q has divergent content (%s vs %s)",
						rel, conflict.Name, conflict.HashA, conflict.HashB))
			}
			inv.Files = append(inv.Files, entry)
		}
	}

	sort.Slice(inv.Files, func(i, j int) bool { return inv.Files[i].Path < inv.Files[j].Path })
	sort.Strings(inv.Conflicts)

	if err := s.writeJSON(s.OutputDir, inventoryFile, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// delimiterFor picks the extraction delimiter by artifact extension.
func delimiterFor(path string) sections.Delimiter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css", ".scss", ".less":
		return sections.BlockComment(nil)
	default:
		return sections.LineComment(nil)
	}
}

// GenerationReport summarizes one pipeline run.
type GenerationReport struct {
	RunID          string    `json:"runId"`
	CreatedAt      time.Time `json:"createdAt"`
	Mode           string    `json:"mode"`
	DesignPlatform string    `json:"designPlatform"`
	TargetPlatform string    `json:"targetPlatform"`
	TokenCount     int       `json:"tokenCount"`
	Changed        bool      `json:"changed"`
	ChangeReason   string    `json:"changeReason,omitempty"`
	Files          []string  `json:"files"`
	Warnings       []string  `json:"warnings,omitempty"`
	NoOp           bool      `json:"noOp"`
}

// WriteGenerationReport writes the per-run generation report.
func (s *Store) WriteGenerationReport(rep *GenerationReport) error {
	return s.writeJSON(s.OutputDir, generationReportFile, rep)
}

// tagPatternsReport pairs the resolved tag with its substitution map.
type tagPatternsReport struct {
	RunID     string                   `json:"runId"`
	CreatedAt time.Time                `json:"createdAt"`
	Result    *token.TagTemplateResult `json:"result"`
}

// WriteTagPatterns writes the tag resolution audit report.
func (s *Store) WriteTagPatterns(runID string, result *token.TagTemplateResult) error {
	return s.writeJSON(s.OutputDir, tagPatternsFile, &tagPatternsReport{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Result:    result,
	})
}

// WriteMarkdownSummary writes the human-readable token overview next to the
// JSON reports.
func (s *Store) WriteMarkdownSummary(c *token.TokenCollection) error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.OutputDir, markdownSummaryFile)
	if err := os.WriteFile(path, []byte(ToMarkdown(c)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
