// Package config loads and validates pipeline configuration. Settings come
// from an optional YAML file with environment-variable overrides on top, so
// CI systems can drive a run entirely through the environment. Validation is
// fail-fast and runs before any network or file I/O.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/tagtpl"
)

// DesignPlatforms are the supported token sources. Exactly one is selected
// per run.
var DesignPlatforms = []string{"figma", "sketch", "adobexd", "zeplin", "abstract", "penpot"}

// TargetPlatforms are the supported generation backends. Exactly one is
// selected per run.
var TargetPlatforms = []string{"ios", "android", "web"}

const (
	ModeSync    = "sync"
	ModeAnalyze = "analyze"

	DefaultTagTemplate = "{branch}/{repo}/tokens/{version}"
	DefaultOutputDir   = "generated"
	DefaultStateDir    = ".token-sync"
)

// Config is the full pipeline configuration.
type Config struct {
	// DesignPlatform identifies the token source (figma, sketch, adobexd,
	// zeplin, abstract, penpot).
	DesignPlatform string `yaml:"design_platform"`
	// TargetPlatform identifies the generation backend (ios, android, web).
	TargetPlatform string `yaml:"target_platform"`

	// Mode is sync (full pipeline including version-control mutations) or
	// analyze (stop after reports).
	Mode         string `yaml:"mode"`
	ValidateOnly bool   `yaml:"validate_only"`
	NoOp         bool   `yaml:"no_op"`

	MergeStrategy string `yaml:"merge_strategy"`
	DarkMode      bool   `yaml:"dark_mode"`
	CSSDialect    string `yaml:"css_dialect"`

	OutputDir string `yaml:"output_dir"`
	StateDir  string `yaml:"state_dir"`

	TagTemplate string `yaml:"tag_template"`

	Figma   FigmaConfig   `yaml:"figma"`
	Git     GitConfig     `yaml:"git"`
	License LicenseConfig `yaml:"license"`
	Vault   VaultConfig   `yaml:"vault"`
}

// FigmaConfig holds Figma connector credentials. AccessToken may be an
// "env:NAME" reference resolved by the secret resolver.
type FigmaConfig struct {
	AccessToken string `yaml:"access_token"`
	FileURL     string `yaml:"file_url"`
}

// GitConfig holds the version-control coordinates the final stage uses.
type GitConfig struct {
	RepositoryURL  string `yaml:"repository_url"`
	Branch         string `yaml:"branch"`
	TargetRepoName string `yaml:"target_repo_name"`
	AuthToken      string `yaml:"auth_token"`
	PullRequest    bool   `yaml:"pull_request"`
}

// LicenseConfig points at the license server. An empty ServerURL skips
// license acquisition entirely (local runs).
type LicenseConfig struct {
	ServerURL string `yaml:"server_url"`
	APIKey    string `yaml:"api_key"`
}

// VaultConfig points at the key-vault. An empty Address makes secret
// resolution a no-op.
type VaultConfig struct {
	Address string `yaml:"address"`
	Token   string `yaml:"token"`
}

// Default returns a configuration with every optional field at its default.
func Default() *Config {
	return &Config{
		Mode:          ModeSync,
		MergeStrategy: string(sections.StrategyPreserve),
		CSSDialect:    "css",
		OutputDir:     DefaultOutputDir,
		StateDir:      DefaultStateDir,
		TagTemplate:   DefaultTagTemplate,
		Git:           GitConfig{Branch: "main"},
	}
}

// Load reads a YAML config file on top of the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

// FromEnv builds a configuration from defaults plus the environment alone.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv(os.Getenv)
	return cfg
}

// applyEnv overrides fields from TOKEN_SYNC_* environment variables.
func (c *Config) applyEnv(env func(string) string) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(env(key)); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(env(key))) {
		case "1", "true", "yes":
			*dst = true
		case "0", "false", "no":
			*dst = false
		}
	}

	setString(&c.DesignPlatform, "TOKEN_SYNC_DESIGN_PLATFORM")
	setString(&c.TargetPlatform, "TOKEN_SYNC_TARGET_PLATFORM")
	setString(&c.Mode, "TOKEN_SYNC_MODE")
	setBool(&c.ValidateOnly, "TOKEN_SYNC_VALIDATE_ONLY")
	setBool(&c.NoOp, "TOKEN_SYNC_NO_OP")
	setString(&c.MergeStrategy, "TOKEN_SYNC_MERGE_STRATEGY")
	setBool(&c.DarkMode, "TOKEN_SYNC_DARK_MODE")
	setString(&c.CSSDialect, "TOKEN_SYNC_CSS_DIALECT")
	setString(&c.OutputDir, "TOKEN_SYNC_OUTPUT_DIR")
	setString(&c.StateDir, "TOKEN_SYNC_STATE_DIR")
	setString(&c.TagTemplate, "TOKEN_SYNC_TAG_TEMPLATE")

	setString(&c.Figma.AccessToken, "TOKEN_SYNC_FIGMA_TOKEN")
	setString(&c.Figma.FileURL, "TOKEN_SYNC_FIGMA_FILE_URL")

	setString(&c.Git.RepositoryURL, "TOKEN_SYNC_REPOSITORY_URL")
	setString(&c.Git.Branch, "TOKEN_SYNC_BRANCH")
	setString(&c.Git.TargetRepoName, "TOKEN_SYNC_TARGET_REPO")
	setString(&c.Git.AuthToken, "TOKEN_SYNC_GIT_TOKEN")
	setBool(&c.Git.PullRequest, "TOKEN_SYNC_PULL_REQUEST")

	setString(&c.License.ServerURL, "TOKEN_SYNC_LICENSE_URL")
	setString(&c.License.APIKey, "TOKEN_SYNC_LICENSE_KEY")

	setString(&c.Vault.Address, "TOKEN_SYNC_VAULT_ADDR")
	setString(&c.Vault.Token, "TOKEN_SYNC_VAULT_TOKEN")
}

// Validate enforces the selection invariants and validates the tag template,
// all before any extraction work can start.
func (c *Config) Validate() error {
	if !contains(DesignPlatforms, strings.ToLower(c.DesignPlatform)) {
		return fmt.Errorf("design platform must be one of %s, got %q",
			strings.Join(DesignPlatforms, ", "), c.DesignPlatform)
	}
	if !contains(TargetPlatforms, strings.ToLower(c.TargetPlatform)) {
		return fmt.Errorf("target platform must be one of %s, got %q",
			strings.Join(TargetPlatforms, ", "), c.TargetPlatform)
	}
	if c.Mode != ModeSync && c.Mode != ModeAnalyze {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeSync, ModeAnalyze, c.Mode)
	}
	if _, err := sections.ParseStrategy(c.MergeStrategy); err != nil {
		return err
	}
	if err := tagtpl.Validate(c.TagTemplate); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state dir must not be empty")
	}
	if strings.ToLower(c.DesignPlatform) == "figma" {
		if c.Figma.FileURL == "" {
			return fmt.Errorf("figma file URL is required for the figma design platform")
		}
		if c.Figma.AccessToken == "" {
			return fmt.Errorf("figma access token is required for the figma design platform")
		}
	}
	return nil
}

// Strategy returns the parsed merge strategy. Validate must have passed.
func (c *Config) Strategy() sections.Strategy {
	s, err := sections.ParseStrategy(c.MergeStrategy)
	if err != nil {
		return sections.StrategyPreserve
	}
	return s
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
