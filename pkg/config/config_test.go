package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.DesignPlatform = "figma"
	cfg.TargetPlatform = "ios"
	cfg.Figma.FileURL = "https://www.figma.com/design/ABC123/Demo"
	cfg.Figma.AccessToken = "figd_secret"
	return cfg
}

func TestValidateAccepts(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsUnknownPlatforms(t *testing.T) {
	cfg := validConfig()
	cfg.DesignPlatform = "canva"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TargetPlatform = "flutter"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownTagPlaceholder(t *testing.T) {
	cfg := validConfig()
	cfg.TagTemplate = "{branch}/{unknown-token}"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{unknown-token}")
}

func TestValidateRejectsUnknownMergeStrategy(t *testing.T) {
	cfg := validConfig()
	cfg.MergeStrategy = "three-way"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresFigmaCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Figma.AccessToken = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token-sync.yaml")
	yamlBody := `
design_platform: figma
target_platform: web
css_dialect: scss
figma:
  access_token: from-file
  file_url: https://www.figma.com/design/ABC123/Demo
git:
  branch: develop
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	t.Setenv("TOKEN_SYNC_TARGET_PLATFORM", "android")
	t.Setenv("TOKEN_SYNC_FIGMA_TOKEN", "from-env")
	t.Setenv("TOKEN_SYNC_DARK_MODE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "figma", cfg.DesignPlatform)
	assert.Equal(t, "android", cfg.TargetPlatform, "env overrides the file")
	assert.Equal(t, "from-env", cfg.Figma.AccessToken)
	assert.Equal(t, "scss", cfg.CSSDialect)
	assert.Equal(t, "develop", cfg.Git.Branch)
	assert.True(t, cfg.DarkMode)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ModeSync, cfg.Mode)
	assert.Equal(t, DefaultTagTemplate, cfg.TagTemplate)
	assert.Equal(t, "preserve-custom", cfg.MergeStrategy)
	assert.Equal(t, "main", cfg.Git.Branch)
}
