package tokensync

import (
	"context"

	"github.com/hellenic-development/token-sync/pkg/config"
)

// GitOperations is the version-control mutation surface. Every method is
// invoked only from the final pipeline stage, after all artifacts and reports
// are on disk.
type GitOperations interface {
	IsValidRepo(ctx context.Context) error
	ConfigureAuth(ctx context.Context, cfg config.GitConfig) error
	CreateBranch(ctx context.Context, name string) error
	CommitChanges(ctx context.Context, message string, paths []string) error
	CreateTag(ctx context.Context, tag string) error
	Push(ctx context.Context, branch, tag string) error
	CreatePullRequest(ctx context.Context, title, branch string) (string, error)
}

// DryRunGit logs every requested mutation without touching any repository.
// It is the default implementation; a real git layer is injected by callers
// that want actual mutations.
type DryRunGit struct {
	Logger Logger
}

func (g DryRunGit) logf(format string, args ...any) {
	if g.Logger != nil {
		g.Logger.Infof(format, args...)
	}
}

func (g DryRunGit) IsValidRepo(_ context.Context) error {
	g.logf("[dry-run] validate repository")
	return nil
}

func (g DryRunGit) ConfigureAuth(_ context.Context, _ config.GitConfig) error {
	g.logf("[dry-run] configure repository auth")
	return nil
}

func (g DryRunGit) CreateBranch(_ context.Context, name string) error {
	g.logf("[dry-run] create branch %s", name)
	return nil
}

func (g DryRunGit) CommitChanges(_ context.Context, message string, paths []string) error {
	g.logf("[dry-run] commit %d path(s): %s", len(paths), message)
	return nil
}

func (g DryRunGit) CreateTag(_ context.Context, tag string) error {
	g.logf("[dry-run] create tag %s", tag)
	return nil
}

func (g DryRunGit) Push(_ context.Context, branch, tag string) error {
	g.logf("[dry-run] push branch %s tag %s", branch, tag)
	return nil
}

func (g DryRunGit) CreatePullRequest(_ context.Context, title, branch string) (string, error) {
	g.logf("[dry-run] open pull request %q from %s", title, branch)
	return "", nil
}
