package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

func testCollection() *token.TokenCollection {
	return &token.TokenCollection{
		Name:    "demo",
		Version: "1.0.0",
		Source:  "figma",
		Tokens: []token.DesignToken{
			{Name: "brand-primary", Type: token.TypeColor, Category: "color", Value: "#FF0000",
				Attributes: map[string]string{"luminance": "0.2990", "wcag_aa_normal": "true"}},
			{Name: "gap-large", Type: token.TypeSpacing, Category: "spacing", Value: "24px"},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), t.TempDir())
	c := testCollection()

	require.NoError(t, store.SaveProcessedSnapshot(c))
	loaded, err := store.LoadProcessedSnapshot()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, c.Name, loaded.Name)
	require.Len(t, loaded.Tokens, 2)
	assert.Equal(t, "brand-primary", loaded.Tokens[0].Name)
	assert.Equal(t, "#FF0000", loaded.Tokens[0].Value)
}

func TestLoadProcessedSnapshotAbsent(t *testing.T) {
	store := NewStore(t.TempDir(), t.TempDir())

	loaded, err := store.LoadProcessedSnapshot()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestScanInventory(t *testing.T) {
	outputDir := t.TempDir()
	store := NewStore(t.TempDir(), outputDir)

	swift := sections.Wrap(token.CustomSection{Name: "Helpers", Content: "let x = 1"}, sections.LineComment(nil)) +
		"\nimport UIKit\n"
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "Colors+Generated.swift"), []byte(swift), 0o644))

	css := sections.Wrap(token.CustomSection{Name: "Overrides", Content: ".btn {}"}, sections.BlockComment(nil)) +
		"\n:root {\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "colors.css"), []byte(css), 0o644))

	inv, err := store.ScanInventory("run-1")
	require.NoError(t, err)
	require.Len(t, inv.Files, 2)

	byPath := make(map[string][]string)
	for _, f := range inv.Files {
		byPath[f.Path] = f.Sections
	}
	assert.Equal(t, []string{"Helpers"}, byPath["Colors+Generated.swift"])
	assert.Equal(t, []string{"Overrides"}, byPath["colors.css"])
	assert.Empty(t, inv.Conflicts)

	// The report itself must be on disk.
	_, err = os.Stat(filepath.Join(outputDir, "custom-sections-inventory.json"))
	assert.NoError(t, err)
}

func TestScanInventoryScopesConflictsPerFile(t *testing.T) {
	outputDir := t.TempDir()
	store := NewStore(t.TempDir(), outputDir)

	// Default-named sections in different artifacts are unrelated, not a
	// conflict, even with divergent contents.
	d := sections.BlockComment(nil)
	colors := sections.Wrap(token.CustomSection{Content: ".a { color: red; }"}, d) + "\n:root {\n}\n"
	typography := sections.Wrap(token.CustomSection{Content: ".b { font: serif; }"}, d) + "\n:root {\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "colors.css"), []byte(colors), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "typography.css"), []byte(typography), 0o644))

	inv, err := store.ScanInventory("run-1")
	require.NoError(t, err)
	assert.Empty(t, inv.Conflicts)

	// Divergent same-named sections within one file do conflict.
	conflicted := sections.Wrap(token.CustomSection{Content: ".a { color: red; }"}, d) +
		"\n" + sections.Wrap(token.CustomSection{Content: ".a { color: blue; }"}, d) + "\n:root {\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "colors.css"), []byte(conflicted), 0o644))

	inv, err = store.ScanInventory("run-2")
	require.NoError(t, err)
	require.Len(t, inv.Conflicts, 1)
	assert.Contains(t, inv.Conflicts[0], "colors.css")
	assert.Contains(t, inv.Conflicts[0], "divergent content")
}

func TestWriteGenerationReportAndTagPatterns(t *testing.T) {
	outputDir := t.TempDir()
	store := NewStore(t.TempDir(), outputDir)

	require.NoError(t, store.WriteGenerationReport(&GenerationReport{
		RunID: "run-1", Mode: "sync", TargetPlatform: "ios", TokenCount: 2, Changed: true,
	}))
	require.NoError(t, store.WriteTagPatterns("run-1", &token.TagTemplateResult{
		Tag:          "main/demo/tokens/1.0.0",
		Template:     "{branch}/{repo}/tokens/{version}",
		Placeholders: map[string]string{"branch": "main"},
	}))

	for _, name := range []string{"generation-report.json", "tag-patterns.json"} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err, name)
	}
}

func TestMarkdownSummary(t *testing.T) {
	md := ToMarkdown(testCollection())

	assert.Contains(t, md, "# Design Tokens - demo")
	assert.Contains(t, md, "`brand-primary`")
	assert.Contains(t, md, "--spacing-gap-large: 24px;")

	outputDir := t.TempDir()
	store := NewStore(t.TempDir(), outputDir)
	require.NoError(t, store.WriteMarkdownSummary(testCollection()))
	_, err := os.Stat(filepath.Join(outputDir, "TOKENS.md"))
	assert.NoError(t, err)
}
