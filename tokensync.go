package tokensync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hellenic-development/token-sync/pkg/cache"
	"github.com/hellenic-development/token-sync/pkg/config"
	"github.com/hellenic-development/token-sync/pkg/diff"
	"github.com/hellenic-development/token-sync/pkg/figma"
	"github.com/hellenic-development/token-sync/pkg/generator"
	"github.com/hellenic-development/token-sync/pkg/normalize"
	"github.com/hellenic-development/token-sync/pkg/report"
	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/tagtpl"
	"github.com/hellenic-development/token-sync/pkg/token"
)

// Connector extracts a raw token collection from a design platform.
type Connector interface {
	Platform() string
	ExtractTokens(ctx context.Context) (*token.TokenCollection, error)
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options configures a pipeline run. Config is required; every collaborator
// is optional and defaults to the in-tree implementation (Figma connector,
// local license, env secret resolver, dry-run git).
type Options struct {
	Config *config.Config

	Connector Connector
	License   LicenseClient
	Secrets   SecretResolver
	Git       GitOperations
	Logger    Logger

	// HeartbeatInterval overrides the license heartbeat period. Zero means
	// the 30 second default.
	HeartbeatInterval time.Duration
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID        string
	NoOp         bool
	Changed      bool
	ChangeReason string
	NoChanges    bool
	Warnings     []string
	Collection   *token.TokenCollection
	Generation   *token.GenerationResult
	Tag          *token.TagTemplateResult
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run executes the token pipeline: validate configuration, resolve secrets,
// acquire a license (degrading to analysis-only mode when unavailable),
// extract and normalize tokens, detect changes against the previous snapshot,
// regenerate platform artifacts with custom sections preserved, resolve the
// release tag, write reports, and finally apply version-control mutations.
// The license is released in a cleanup phase that always runs.
func Run(ctx context.Context, opts Options) (result *Result, err error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, stageErr(ExitConfig, "configuration", fmt.Errorf("nil config"))
	}

	// Fail fast: configuration and template validation happen before any
	// network or file I/O.
	opts.logInfo("Validating configuration...")
	if err := cfg.Validate(); err != nil {
		return nil, stageErr(ExitConfig, "configuration", err)
	}

	applyDefaults(&opts)
	if opts.Connector == nil {
		return nil, stageErr(ExitConfig, "configuration",
			fmt.Errorf("no connector available for design platform %q", cfg.DesignPlatform))
	}

	result = &Result{RunID: uuid.NewString()}
	opts.logInfo("Run %s: %s -> %s (%s mode)", result.RunID, cfg.DesignPlatform, cfg.TargetPlatform, cfg.Mode)

	// Secrets resolve before anything that needs credentials.
	opts.logInfo("Resolving secrets...")
	if err := opts.Secrets.ResolveSecrets(ctx, cfg); err != nil {
		return nil, stageErr(ExitVault, "secret resolution", err)
	}

	// License unavailability degrades to analysis-only mode, never aborts.
	opts.logInfo("Acquiring license...")
	session, licErr := opts.License.Acquire(ctx, cfg.License)
	if licErr != nil {
		opts.logWarn("License unavailable, degrading to analysis-only mode: %v", licErr)
	} else if session == nil {
		opts.logWarn("License not granted, degrading to analysis-only mode")
	}
	result.NoOp = cfg.NoOp || session == nil

	// The heartbeat is the only concurrent activity. Teardown is LIFO: the
	// heartbeat must stop before the session it beats is released.
	if session != nil {
		hb := startHeartbeat(ctx, opts.License, session, opts.HeartbeatInterval, opts.logWarn)
		defer func() {
			if relErr := opts.License.Release(session); relErr != nil {
				opts.logWarn("License release failed: %v", relErr)
			}
		}()
		defer hb.stop()
	}

	mutating := cfg.Mode == config.ModeSync && !cfg.ValidateOnly && !result.NoOp

	if mutating {
		opts.logInfo("Validating repository access...")
		if err := opts.Git.IsValidRepo(ctx); err != nil {
			return result, stageErr(ExitRepo, "repository validation", err)
		}
		if err := opts.Git.ConfigureAuth(ctx, cfg.Git); err != nil {
			return result, stageErr(ExitAuth, "repository auth", err)
		}
	}

	opts.logInfo("Extracting tokens from %s...", opts.Connector.Platform())
	raw, err := opts.Connector.ExtractTokens(ctx)
	if err != nil {
		return result, stageErr(ExitDesignAPI, "token extraction", err)
	}
	opts.logInfo("Extracted %d raw token(s) from %q", len(raw.Tokens), raw.Name)

	store := report.NewStore(cfg.StateDir, cfg.OutputDir)
	if err := store.SaveRawSnapshot(raw); err != nil {
		return result, stageErr(ExitFilesystem, "raw snapshot", err)
	}

	opts.logInfo("Normalizing...")
	// ttl 0: a non-zero ttl starts an expiry goroutine that outlives the run.
	// The size bound plus the explicit purge is enough for a per-run cache.
	colors := cache.New[string, string](512, 0)
	defer colors.Purge()
	engine := normalize.New(
		normalize.WithColorCache(colors),
		normalize.WithDarkMode(cfg.DarkMode),
	)
	collection, warnings, err := engine.Normalize(raw)
	if err != nil {
		return result, stageErr(ExitExtraction, "normalization", err)
	}
	for _, w := range warnings {
		opts.logWarn("%s", w)
	}
	result.Warnings = warnings
	result.Collection = collection
	opts.logInfo("Normalized %d token(s)", len(collection.Tokens))

	// A snapshot that fails to load counts as changed; skipping regeneration
	// on a comparison bug is the worse failure mode.
	previous, err := store.LoadProcessedSnapshot()
	if err != nil {
		opts.logWarn("Could not load previous snapshot, assuming changed: %v", err)
		previous = nil
	}
	result.Changed, result.ChangeReason = diff.Compare(previous, collection)
	opts.logInfo("Change detection: %s", result.ChangeReason)

	if !result.Changed && cfg.Mode == config.ModeSync && !cfg.ValidateOnly {
		opts.logInfo("No design changes detected, nothing to regenerate")
		result.NoChanges = true
		return result, writeRunReports(&opts, store, result, nil)
	}

	// Validate-only runs stop at change detection: no artifacts and no new
	// baseline, so the next sync run still sees the change.
	writeArtifacts := !result.NoOp && !cfg.ValidateOnly

	if !writeArtifacts {
		opts.logInfo("Skipping artifact generation")
	} else {
		gen, err := generator.For(cfg.TargetPlatform)
		if err != nil {
			return result, stageErr(ExitGeneration, "generation", err)
		}
		strategy := cfg.Strategy()
		if strategy == sections.StrategyPrompt {
			opts.logWarn("Merge strategy %q is not interactive in pipeline runs, preserving custom sections", strategy)
			strategy = sections.StrategyPreserve
		}

		opts.logInfo("Generating %s artifacts in %s...", gen.Platform(), cfg.OutputDir)
		genResult, err := gen.Generate(collection, generator.Config{
			OutputDir: cfg.OutputDir,
			Strategy:  strategy,
			Dialect:   cfg.CSSDialect,
		})
		if err != nil {
			return result, stageErr(ExitGeneration, "generation", err)
		}
		if !genResult.Success {
			opts.logError("Generation failed: %s", genResult.Error)
			return result, stageErr(ExitGeneration, "generation", fmt.Errorf("%s", genResult.Error))
		}
		result.Generation = genResult
		opts.logInfo("Generated %d file(s)", len(genResult.Files))
	}

	var inventory *report.Inventory
	if writeArtifacts {
		opts.logInfo("Scanning custom sections...")
		inv, err := store.ScanInventory(result.RunID)
		if err != nil {
			return result, stageErr(ExitFilesystem, "section inventory", err)
		}
		inventory = inv
		// Conflicts are surfaced, never fatal: a diverged hand-written
		// section must not stop token delivery.
		for _, conflict := range inv.Conflicts {
			opts.logWarn("Custom section conflict: %s", conflict)
		}
		result.Warnings = append(result.Warnings, inv.Conflicts...)
	}

	opts.logInfo("Resolving tag template...")
	tagResult, err := tagtpl.Resolve(cfg.TagTemplate, tagtpl.Context{
		Branch:         cfg.Git.Branch,
		RepositoryURL:  cfg.Git.RepositoryURL,
		TargetRepoName: cfg.Git.TargetRepoName,
		Version:        collection.Version,
		DesignPlatform: cfg.DesignPlatform,
		TargetPlatform: cfg.TargetPlatform,
	})
	if err != nil {
		return result, stageErr(ExitConfig, "tag template", err)
	}
	result.Tag = tagResult
	opts.logInfo("Tag: %s", tagResult.Tag)

	if err := writeRunReports(&opts, store, result, inventory); err != nil {
		return result, err
	}

	// Only a successfully generated collection becomes the next baseline.
	if writeArtifacts {
		if err := store.SaveProcessedSnapshot(collection); err != nil {
			return result, stageErr(ExitFilesystem, "processed snapshot", err)
		}
	}

	if mutating {
		if err := applyGit(ctx, &opts, result); err != nil {
			return result, err
		}
	}

	opts.logInfo("Run %s complete", result.RunID)
	return result, nil
}

// applyDefaults fills in the default collaborators for anything the caller
// did not inject.
func applyDefaults(opts *Options) {
	cfg := opts.Config

	if opts.Connector == nil && cfg.DesignPlatform == "figma" {
		opts.Connector = figma.NewConnector(cfg.Figma.AccessToken, cfg.Figma.FileURL)
	}
	if opts.License == nil {
		opts.License = StaticLicense{}
	}
	if opts.Secrets == nil {
		opts.Secrets = EnvResolver{}
	}
	if opts.Git == nil {
		opts.Git = DryRunGit{Logger: opts.Logger}
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 30 * time.Second
	}
}

// writeRunReports persists the generation report, tag patterns, section
// inventory (already written by the scan) and the markdown summary.
func writeRunReports(opts *Options, store *report.Store, result *Result, _ *report.Inventory) error {
	cfg := opts.Config

	rep := &report.GenerationReport{
		RunID:          result.RunID,
		CreatedAt:      time.Now().UTC(),
		Mode:           cfg.Mode,
		DesignPlatform: cfg.DesignPlatform,
		TargetPlatform: cfg.TargetPlatform,
		Changed:        result.Changed,
		ChangeReason:   result.ChangeReason,
		Warnings:       result.Warnings,
		NoOp:           result.NoOp,
	}
	if result.Collection != nil {
		rep.TokenCount = len(result.Collection.Tokens)
	}
	if result.Generation != nil {
		for _, f := range result.Generation.Files {
			rep.Files = append(rep.Files, f.FilePath)
		}
	}

	opts.logInfo("Writing reports to %s...", cfg.OutputDir)
	if err := store.WriteGenerationReport(rep); err != nil {
		return stageErr(ExitFilesystem, "reports", err)
	}
	if result.Tag != nil {
		if err := store.WriteTagPatterns(result.RunID, result.Tag); err != nil {
			return stageErr(ExitFilesystem, "reports", err)
		}
	}
	if result.Collection != nil {
		if err := store.WriteMarkdownSummary(result.Collection); err != nil {
			return stageErr(ExitFilesystem, "reports", err)
		}
	}
	return nil
}

// applyGit performs the version-control mutations for a sync run: branch,
// commit, tag, push and, when configured, a pull request.
func applyGit(ctx context.Context, opts *Options, result *Result) error {
	cfg := opts.Config

	branch := fmt.Sprintf("token-sync/%s", result.RunID)
	opts.logInfo("Applying version-control mutations on %s...", branch)

	if err := opts.Git.CreateBranch(ctx, branch); err != nil {
		return stageErr(ExitGit, "git branch", err)
	}

	var paths []string
	if result.Generation != nil {
		for _, f := range result.Generation.Files {
			paths = append(paths, f.FilePath)
		}
	}
	message := fmt.Sprintf("Update design tokens (%d tokens, run %s)", len(result.Collection.Tokens), result.RunID)
	if err := opts.Git.CommitChanges(ctx, message, paths); err != nil {
		return stageErr(ExitGit, "git commit", err)
	}

	if err := opts.Git.CreateTag(ctx, result.Tag.Tag); err != nil {
		return stageErr(ExitGit, "git tag", err)
	}
	if err := opts.Git.Push(ctx, branch, result.Tag.Tag); err != nil {
		return stageErr(ExitGit, "git push", err)
	}

	if cfg.Git.PullRequest {
		url, err := opts.Git.CreatePullRequest(ctx, message, branch)
		if err != nil {
			return stageErr(ExitGit, "git pull request", err)
		}
		if url != "" {
			opts.logInfo("Pull request: %s", url)
		}
	}
	return nil
}
