package tokensync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hellenic-development/token-sync/pkg/config"
	"github.com/hellenic-development/token-sync/pkg/sections"
	"github.com/hellenic-development/token-sync/pkg/token"
)

type fakeConnector struct {
	collection *token.TokenCollection
	err        error
	delay      time.Duration
	calls      int
}

func (f *fakeConnector) Platform() string { return "figma" }

func (f *fakeConnector) ExtractTokens(_ context.Context) (*token.TokenCollection, error) {
	f.calls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.collection, nil
}

type fakeLicense struct {
	grant      bool
	acquireErr error
	heartbeats atomic.Int64
	released   atomic.Bool
	// lateBeat records a heartbeat arriving after the session was released.
	lateBeat atomic.Bool
}

func (f *fakeLicense) Acquire(_ context.Context, _ config.LicenseConfig) (*LicenseSession, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	if !f.grant {
		return nil, nil
	}
	return &LicenseSession{ID: "session-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeLicense) Heartbeat(_ context.Context, _ *LicenseSession) error {
	if f.released.Load() {
		f.lateBeat.Store(true)
	}
	f.heartbeats.Add(1)
	return nil
}

func (f *fakeLicense) Release(_ *LicenseSession) error {
	f.released.Store(true)
	return nil
}

type recordingGit struct {
	ops []string
}

func (g *recordingGit) record(op string) { g.ops = append(g.ops, op) }

func (g *recordingGit) IsValidRepo(_ context.Context) error {
	g.record("validate")
	return nil
}

func (g *recordingGit) ConfigureAuth(_ context.Context, _ config.GitConfig) error {
	g.record("auth")
	return nil
}

func (g *recordingGit) CreateBranch(_ context.Context, _ string) error {
	g.record("branch")
	return nil
}

func (g *recordingGit) CommitChanges(_ context.Context, _ string, _ []string) error {
	g.record("commit")
	return nil
}

func (g *recordingGit) CreateTag(_ context.Context, tag string) error {
	g.record("tag:" + tag)
	return nil
}

func (g *recordingGit) Push(_ context.Context, _, _ string) error {
	g.record("push")
	return nil
}

func (g *recordingGit) CreatePullRequest(_ context.Context, _, _ string) (string, error) {
	g.record("pr")
	return "https://git.example.com/org/photo-app/pulls/1", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DesignPlatform = "figma"
	cfg.TargetPlatform = "web"
	cfg.Figma.AccessToken = "test-token"
	cfg.Figma.FileURL = "https://www.figma.com/file/ABC123/Design"
	cfg.Git.RepositoryURL = "https://git.example.com/org/photo-app.git"
	cfg.OutputDir = filepath.Join(t.TempDir(), "generated")
	cfg.StateDir = filepath.Join(t.TempDir(), "state")
	return cfg
}

func testCollection() *token.TokenCollection {
	return &token.TokenCollection{
		Name:    "Design System",
		Version: "2.1.0",
		Source:  "figma",
		Tokens: []token.DesignToken{
			{Name: "Brand Primary", Type: token.TypeColor, Value: "#0A84FF"},
			{Name: "Body Text", Type: token.TypeTypography, Value: map[string]any{
				"fontFamily": "Inter", "fontSize": 16, "fontWeight": 400,
			}},
			{Name: "Gap Large", Type: token.TypeSpacing, Value: "24px"},
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	// A run must leave nothing behind, including the color cache and the
	// heartbeat goroutine.
	defer goleak.VerifyNone(t)

	cfg := testConfig(t)
	lic := &fakeLicense{grant: true}
	git := &recordingGit{}

	result, err := Run(context.Background(), Options{
		Config:    cfg,
		Connector: &fakeConnector{collection: testCollection()},
		License:   lic,
		Git:       git,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.False(t, result.NoOp)
	assert.False(t, result.NoChanges)
	require.NotNil(t, result.Generation)
	assert.True(t, result.Generation.Success)
	assert.NotEmpty(t, result.Generation.Files)

	require.NotNil(t, result.Tag)
	assert.Equal(t, "main/photo-app/tokens/2.1.0", result.Tag.Tag)

	// Artifacts and state on disk.
	for _, f := range result.Generation.Files {
		_, statErr := os.Stat(f.FilePath)
		assert.NoError(t, statErr, f.FilePath)
	}
	_, err = os.Stat(filepath.Join(cfg.StateDir, "processed.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.StateDir, "raw.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "generation-report.json"))
	assert.NoError(t, err)

	// Git mutations ran in order, ending with the push.
	assert.Equal(t, []string{"validate", "auth", "branch", "commit", "tag:main/photo-app/tokens/2.1.0", "push"}, git.ops)

	assert.True(t, lic.released.Load(), "license must be released after the run")
}

func TestRunNoChangesShortCircuit(t *testing.T) {
	cfg := testConfig(t)
	conn := &fakeConnector{collection: testCollection()}

	first, err := Run(context.Background(), Options{Config: cfg, Connector: conn})
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := Run(context.Background(), Options{Config: cfg, Connector: conn})
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.True(t, second.NoChanges)
	assert.Nil(t, second.Generation)
}

func TestRunDegradesToAnalysisOnly(t *testing.T) {
	cfg := testConfig(t)
	lic := &fakeLicense{acquireErr: fmt.Errorf("license server unreachable")}
	git := &recordingGit{}

	result, err := Run(context.Background(), Options{
		Config:    cfg,
		Connector: &fakeConnector{collection: testCollection()},
		License:   lic,
		Git:       git,
	})
	require.NoError(t, err, "license unavailability must not fail the run")

	assert.True(t, result.NoOp)
	assert.Nil(t, result.Generation)
	assert.Empty(t, git.ops, "degraded runs must not touch version control")

	// Analysis output is still written.
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "generation-report.json"))
	assert.NoError(t, err)
	// But no artifact files and no new baseline.
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "colors.css"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.StateDir, "processed.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunAnalyzeModeSkipsGit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = config.ModeAnalyze
	git := &recordingGit{}

	result, err := Run(context.Background(), Options{
		Config:    cfg,
		Connector: &fakeConnector{collection: testCollection()},
		Git:       git,
	})
	require.NoError(t, err)

	assert.False(t, result.NoOp)
	require.NotNil(t, result.Generation)
	assert.Empty(t, git.ops)
}

func TestRunValidateOnlyKeepsBaseline(t *testing.T) {
	cfg := testConfig(t)
	cfg.ValidateOnly = true
	conn := &fakeConnector{collection: testCollection()}
	git := &recordingGit{}

	result, err := Run(context.Background(), Options{Config: cfg, Connector: conn, Git: git})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Nil(t, result.Generation)
	assert.Empty(t, git.ops)

	// No artifacts and, critically, no advanced baseline.
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "colors.css"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(cfg.StateDir, "processed.json"))
	assert.True(t, os.IsNotExist(err))

	// The following sync run still sees the change and delivers it.
	cfg.ValidateOnly = false
	git = &recordingGit{}
	result, err = Run(context.Background(), Options{Config: cfg, Connector: conn, Git: git})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.NoChanges)
	require.NotNil(t, result.Generation)
	assert.Contains(t, git.ops, "push")
}

func TestRunToleratesSectionConflict(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))

	// A previous artifact carrying two divergent default-named sections.
	d := sections.BlockComment(nil)
	previous := sections.Wrap(token.CustomSection{Content: ".a { color: red; }"}, d) +
		"\n" + sections.Wrap(token.CustomSection{Content: ".b { color: blue; }"}, d) +
		"\n:root {\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir, "colors.css"), []byte(previous), 0o644))

	result, err := Run(context.Background(), Options{
		Config:    cfg,
		Connector: &fakeConnector{collection: testCollection()},
	})
	require.NoError(t, err, "section conflicts must not stop token delivery")

	var conflictWarned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "divergent content") {
			conflictWarned = true
		}
	}
	assert.True(t, conflictWarned, "conflict must be surfaced in the warnings: %v", result.Warnings)
}

func TestRunFailsFastOnInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.TagTemplate = "{branch}/{unknown-token}"
	conn := &fakeConnector{collection: testCollection()}

	_, err := Run(context.Background(), Options{Config: cfg, Connector: conn})
	require.Error(t, err)
	assert.Equal(t, ExitConfig, ExitCode(err))
	assert.Zero(t, conn.calls, "validation failures must precede extraction")
}

func TestRunExtractionFailureReleasesLicense(t *testing.T) {
	cfg := testConfig(t)
	lic := &fakeLicense{grant: true}

	_, err := Run(context.Background(), Options{
		Config:    cfg,
		Connector: &fakeConnector{err: fmt.Errorf("figma: 503")},
		License:   lic,
	})
	require.Error(t, err)
	assert.Equal(t, ExitDesignAPI, ExitCode(err))
	assert.True(t, lic.released.Load(), "cleanup must run on failure")
}

func TestHeartbeatRunsAndTearsDown(t *testing.T) {
	lic := &fakeLicense{grant: true}
	cfg := testConfig(t)

	_, err := Run(context.Background(), Options{
		Config:            cfg,
		Connector:         &fakeConnector{collection: testCollection(), delay: 25 * time.Millisecond},
		License:           lic,
		HeartbeatInterval: time.Millisecond,
	})
	require.NoError(t, err)
	assert.Positive(t, lic.heartbeats.Load())

	// No further heartbeats after the run's cleanup phase.
	after := lic.heartbeats.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, lic.heartbeats.Load())
	assert.True(t, lic.released.Load())
	assert.False(t, lic.lateBeat.Load(), "the heartbeat must stop before the session is released")
}

func TestHeartbeatStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	lic := &fakeLicense{grant: true}
	session, err := lic.Acquire(context.Background(), config.LicenseConfig{})
	require.NoError(t, err)

	hb := startHeartbeat(context.Background(), lic, session, time.Millisecond, func(string, ...any) {})
	time.Sleep(10 * time.Millisecond)

	hb.stop()
	hb.stop()
	hb.stop()
	assert.Positive(t, lic.heartbeats.Load())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGit, ExitCode(stageErr(ExitGit, "git push", fmt.Errorf("remote rejected"))))
	assert.Equal(t, ExitConfig, ExitCode(fmt.Errorf("untyped")))

	wrapped := fmt.Errorf("wrapped: %w", stageErr(ExitVault, "secret resolution", fmt.Errorf("unset variable")))
	assert.Equal(t, ExitVault, ExitCode(wrapped))
}

func TestEnvResolver(t *testing.T) {
	t.Setenv("TOKEN_SYNC_TEST_SECRET", "resolved-value")

	cfg := config.Default()
	cfg.Figma.AccessToken = "env:TOKEN_SYNC_TEST_SECRET"
	cfg.Git.AuthToken = "plain-token"

	require.NoError(t, EnvResolver{}.ResolveSecrets(context.Background(), cfg))
	assert.Equal(t, "resolved-value", cfg.Figma.AccessToken)
	assert.Equal(t, "plain-token", cfg.Git.AuthToken)

	cfg.License.APIKey = "env:TOKEN_SYNC_TEST_MISSING"
	err := EnvResolver{}.ResolveSecrets(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SYNC_TEST_MISSING")
}
