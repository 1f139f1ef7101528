package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tokensync "github.com/hellenic-development/token-sync"
	"github.com/hellenic-development/token-sync/pkg/config"
)

const version = "1.2.0"

var (
	configPath     string
	envFile        string
	mode           string
	designPlatform string
	targetPlatform string
	validateOnly   bool
	noOp           bool
	darkMode       bool
	mergeStrategy  string
	cssDialect     string
	outputDir      string
	stateDir       string
	tagTemplate    string
	logJSON        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "token-sync",
		Short: "Sync design tokens from a design platform into versioned platform artifacts",
		Long: "A pipeline that extracts design tokens from a design file, normalizes them into a canonical form,\n" +
			"regenerates iOS/Android/web artifact files while preserving hand-written custom sections,\n" +
			"and tags the result in version control.",
		Run: run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from this file before reading configuration")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", "", "Operation mode: sync or analyze")
	rootCmd.Flags().StringVar(&designPlatform, "design-platform", "", "Design platform to extract from (figma, sketch, adobexd, zeplin, abstract, penpot)")
	rootCmd.Flags().StringVar(&targetPlatform, "target-platform", "", "Target platform to generate for (ios, android, web)")
	rootCmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Validate configuration and detect changes without writing artifacts or mutating version control")
	rootCmd.Flags().BoolVar(&noOp, "no-op", false, "Run analysis and reports only, without file or version-control mutations")
	rootCmd.Flags().BoolVar(&darkMode, "dark-mode", false, "Derive dark-mode sibling tokens for every color token")
	rootCmd.Flags().StringVar(&mergeStrategy, "merge-strategy", "", "Custom-section merge strategy: preserve-custom, overwrite, prompt")
	rootCmd.Flags().StringVar(&cssDialect, "css-dialect", "", "Stylesheet dialect for the web target: css, scss, less")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated artifact files")
	rootCmd.Flags().StringVar(&stateDir, "state-dir", "", "Directory for snapshots and run state")
	rootCmd.Flags().StringVar(&tagTemplate, "tag-template", "", "Version-control tag template, e.g. {branch}/{repo}/tokens/{version}")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false, "Emit structured JSON logs instead of colored terminal output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("token-sync version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(tokensync.ExitConfig)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	if !logJSON {
		cyan.Println("\n🎨 Design Token Sync")
		cyan.Println("=====================")
		cyan.Println()
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			red.Printf("Error: load env file: %v\n", err)
			os.Exit(tokensync.ExitConfig)
		}
	} else {
		// A missing default .env is fine.
		_ = godotenv.Load()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(tokensync.ExitConfig)
	}
	applyFlags(cmd, cfg)

	logger, closeLogger, err := newLogger()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(tokensync.ExitConfig)
	}
	defer closeLogger()

	result, err := tokensync.Run(context.Background(), tokensync.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(tokensync.ExitCode(err))
	}

	if result.NoChanges {
		green.Println("\n✨ No design changes detected, artifacts are up to date")
		os.Exit(tokensync.ExitNoChanges)
	}

	if !logJSON {
		printSummary(cfg, result)
	}
	green.Println("\n✨ Token sync complete")
}

// applyFlags layers explicitly set CLI flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	set("mode", func() { cfg.Mode = mode })
	set("design-platform", func() { cfg.DesignPlatform = designPlatform })
	set("target-platform", func() { cfg.TargetPlatform = targetPlatform })
	set("validate-only", func() { cfg.ValidateOnly = validateOnly })
	set("no-op", func() { cfg.NoOp = noOp })
	set("dark-mode", func() { cfg.DarkMode = darkMode })
	set("merge-strategy", func() { cfg.MergeStrategy = mergeStrategy })
	set("css-dialect", func() { cfg.CSSDialect = cssDialect })
	set("output-dir", func() { cfg.OutputDir = outputDir })
	set("state-dir", func() { cfg.StateDir = stateDir })
	set("tag-template", func() { cfg.TagTemplate = tagTemplate })
}

func printSummary(cfg *config.Config, result *tokensync.Result) {
	cyan := color.New(color.FgCyan)

	cyan.Println("\n📊 Run Summary:")
	fmt.Printf("  • Run ID: %s\n", result.RunID)
	fmt.Printf("  • Pipeline: %s → %s (%s mode)\n", cfg.DesignPlatform, cfg.TargetPlatform, cfg.Mode)
	if result.Collection != nil {
		fmt.Printf("  • Tokens: %d (version %s)\n", len(result.Collection.Tokens), result.Collection.Version)
	}
	if result.NoOp {
		fmt.Println("  • Mode: analysis-only (no files or version control touched)")
	}
	if result.Generation != nil {
		fmt.Printf("  • Generated Files: %d\n", len(result.Generation.Files))
		sectionCount := 0
		for _, f := range result.Generation.Files {
			sectionCount += len(f.CustomSections)
		}
		if sectionCount > 0 {
			fmt.Printf("  • Preserved Custom Sections: %d\n", sectionCount)
		}
	}
	if result.Tag != nil {
		fmt.Printf("  • Tag: %s\n", result.Tag.Tag)
	}
	for _, w := range result.Warnings {
		color.New(color.FgYellow).Printf("  ⚠ %s\n", w)
	}
}

// newLogger builds the pipeline logger: colored terminal output by default,
// zap JSON when --log-json is set.
func newLogger() (tokensync.Logger, func(), error) {
	if !logJSON {
		return &cliLogger{}, func() {}, nil
	}

	zl, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return &zapLogger{sugar: zl.Sugar()}, func() { _ = zl.Sync() }, nil
}

// cliLogger implements tokensync.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}

// zapLogger adapts a zap SugaredLogger to the pipeline Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *zapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }
