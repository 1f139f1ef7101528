// Package tokensync turns design files into versioned platform artifacts.
// It extracts design decisions (colors, typography, spacing, shadows,
// borders, opacity) from a design platform, normalizes them into a canonical
// token collection, detects changes against the previous run, regenerates
// iOS, Android or web artifact files while preserving hand-written custom
// sections, and resolves a sanitized version-control tag for the release.
//
// The CLI lives in cmd/token-sync; this root package exposes the same
// pipeline as a Go API so that callers can embed it in their own tools
// without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named tokensync:
//
//	import "github.com/hellenic-development/token-sync" // package tokensync
//
// # Quick start
//
//	cfg := config.Default()
//	cfg.DesignPlatform = "figma"
//	cfg.Figma.AccessToken = os.Getenv("FIGMA_TOKEN")
//	cfg.Figma.FileURL = "https://www.figma.com/design/ABC123/My-Design"
//	cfg.TargetPlatform = "web"
//
//	result, err := tokensync.Run(ctx, tokensync.Options{Config: cfg})
//	if err != nil {
//	    os.Exit(tokensync.ExitCode(err))
//	}
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
// # Collaborators
//
// The design-platform connector, license client, secret resolver and git
// layer are all injectable through [Options]. Defaults are the in-tree Figma
// connector, a local license grant, an env-reference secret resolver and a
// dry-run git implementation that logs mutations without applying them.
// A license client that cannot grant a session degrades the run to
// analysis-only mode: every report is still written but no artifact files or
// version-control mutations are produced.
package tokensync
