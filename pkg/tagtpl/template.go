// Package tagtpl builds sanitized version-control tag strings from a
// placeholder template and resolved build/runtime metadata. Validation is
// fail-fast: an unknown placeholder aborts the run before any extraction
// work happens.
package tagtpl

import (
	"fmt"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hellenic-development/token-sync/pkg/token"
)

// supportedPlaceholders is the closed placeholder set.
var supportedPlaceholders = map[string]bool{
	"branch": true, "repo": true,
	"version": true, "major": true, "minor": true, "patch": true,
	"date": true, "datetime": true,
	"commit-hash": true, "commit-hash-full": true,
	"build-number": true, "user": true,
	"design-platform": true, "platform": true, "vertical": true,
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// CI environment variables probed in order for each runtime value.
var (
	commitEnvVars = []string{"GITHUB_SHA", "CI_COMMIT_SHA", "GIT_COMMIT", "BITBUCKET_COMMIT", "CIRCLE_SHA1"}
	buildEnvVars  = []string{"GITHUB_RUN_NUMBER", "CI_PIPELINE_IID", "BUILD_NUMBER", "CIRCLE_BUILD_NUM", "TRAVIS_BUILD_NUMBER"}
	userEnvVars   = []string{"GITHUB_ACTOR", "GITLAB_USER_LOGIN", "BUILD_USER", "USER", "USERNAME"}
)

// verticalKeywords maps repository-name fragments to business verticals.
var verticalKeywords = []struct {
	vertical string
	matches  []string
}{
	{"commerce", []string{"shop", "store", "commerce", "cart", "retail"}},
	{"finance", []string{"bank", "fintech", "payment", "wallet", "invoice"}},
	{"health", []string{"health", "medical", "clinic", "care"}},
	{"media", []string{"photo", "video", "media", "music", "stream"}},
	{"gaming", []string{"game", "arcade"}},
	{"travel", []string{"travel", "trip", "booking"}},
	{"social", []string{"social", "chat", "messenger"}},
}

const defaultVertical = "tokens"

// Context carries everything placeholder resolution needs. Env and Now are
// injectable for tests; nil Env falls back to an empty environment and a
// zero Now to the current UTC wall clock.
type Context struct {
	Branch         string
	RepositoryURL  string
	TargetRepoName string
	Version        string
	DesignPlatform string
	TargetPlatform string

	Env func(string) string
	Now time.Time
}

// Validate checks a template against the closed placeholder set. It reports
// every unknown placeholder, not only the first.
func Validate(template string) error {
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("tag template is empty")
	}

	var unknown []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if !supportedPlaceholders[name] {
			unknown = append(unknown, "{"+name+"}")
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown placeholder(s) in tag template: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Resolve validates the template, resolves every placeholder from ctx and
// returns the sanitized tag with the full substitution map.
func Resolve(template string, ctx Context) (*token.TagTemplateResult, error) {
	if err := Validate(template); err != nil {
		return nil, err
	}

	values := resolvePlaceholders(ctx)

	tag := template
	for name, value := range values {
		tag = strings.ReplaceAll(tag, "{"+name+"}", value)
	}

	// Unreachable given prior validation, but a surviving placeholder in a
	// pushed tag would be worse than a failed run.
	if placeholderPattern.MatchString(tag) {
		return nil, fmt.Errorf("unresolved placeholder survived substitution in %q", tag)
	}

	tag = finalizeTag(tag)

	return &token.TagTemplateResult{
		Tag:          tag,
		Template:     template,
		Placeholders: values,
	}, nil
}

func resolvePlaceholders(ctx Context) map[string]string {
	env := ctx.Env
	if env == nil {
		env = func(string) string { return "" }
	}
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	major, minor, patch := parseVersion(ctx.Version)

	fullCommit := probeEnv(env, commitEnvVars)
	if fullCommit == "" {
		fullCommit = strconv.FormatInt(now.Unix(), 16)
	}
	shortCommit := fullCommit
	if len(shortCommit) > 7 {
		shortCommit = shortCommit[:7]
	}

	buildNumber := probeEnv(env, buildEnvVars)
	if buildNumber == "" {
		buildNumber = now.Format("20060102150405")
	}

	userName := probeEnv(env, userEnvVars)
	if userName == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			userName = u.Username
		} else {
			userName = "unknown"
		}
	}

	return map[string]string{
		"branch":           sanitizeComponent(stripBranchPrefixes(ctx.Branch), "unknown"),
		"repo":             sanitizeComponent(repoName(ctx.RepositoryURL), "unknown-repo"),
		"version":          fmt.Sprintf("%d.%d.%d", major, minor, patch),
		"major":            strconv.Itoa(major),
		"minor":            strconv.Itoa(minor),
		"patch":            strconv.Itoa(patch),
		"date":             now.Format("2006-01-02"),
		"datetime":         now.Format("2006-01-02-150405"),
		"commit-hash":      sanitizeComponent(shortCommit, "unknown"),
		"commit-hash-full": sanitizeComponent(fullCommit, "unknown"),
		"build-number":     sanitizeComponent(buildNumber, "unknown"),
		"user":             sanitizeComponent(userName, "unknown"),
		"design-platform":  sanitizeComponent(ctx.DesignPlatform, "unknown"),
		"platform":         sanitizeComponent(ctx.TargetPlatform, "unknown"),
		"vertical":         vertical(ctx),
	}
}

func probeEnv(env func(string) string, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(env(name)); v != "" {
			return v
		}
	}
	return ""
}

// parseVersion splits a dot-separated version string; malformed input yields
// 1.0.0.
func parseVersion(version string) (major, minor, patch int) {
	c := token.TokenCollection{Version: version}
	return c.SemVer()
}

// repoName extracts the last non-empty path segment of a repository URL,
// minus a trailing ".git".
func repoName(url string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	if trimmed == "" {
		return ""
	}
	segment := trimmed
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
		segment = trimmed[idx+1:]
	}
	return strings.TrimSuffix(segment, ".git")
}

func stripBranchPrefixes(branch string) string {
	b := strings.TrimSpace(branch)
	b = strings.TrimPrefix(b, "refs/heads/")
	b = strings.TrimPrefix(b, "origin/")
	return b
}

// vertical matches a fixed keyword list against the repository and target
// repository names.
func vertical(ctx Context) string {
	haystack := strings.ToLower(repoName(ctx.RepositoryURL) + " " + ctx.TargetRepoName)
	for _, vk := range verticalKeywords {
		for _, m := range vk.matches {
			if strings.Contains(haystack, m) {
				return vk.vertical
			}
		}
	}
	return defaultVertical
}

var (
	disallowedChars = regexp.MustCompile(`[\s/\\~^:?*\[\]@{}<>|"']+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
	repeatedDots    = regexp.MustCompile(`\.{2,}`)
)

// sanitizeComponent rewrites a single resolved value into a tag-safe form:
// disallowed characters become hyphens, runs collapse, edges are trimmed and
// a trailing ".lock" is rewritten. An empty result becomes the fallback.
func sanitizeComponent(value, fallback string) string {
	out := disallowedChars.ReplaceAllString(strings.TrimSpace(value), "-")
	out = repeatedHyphens.ReplaceAllString(out, "-")
	out = repeatedDots.ReplaceAllString(out, ".")
	out = strings.Trim(out, "-.")
	if strings.HasSuffix(out, ".lock") {
		out = strings.TrimSuffix(out, ".lock") + "-lock"
	}
	if out == "" {
		return fallback
	}
	return out
}

// finalizeTag applies the same cleanup to the assembled tag, preserving the
// path separators the template itself contains.
func finalizeTag(tag string) string {
	out := repeatedHyphens.ReplaceAllString(tag, "-")
	out = repeatedDots.ReplaceAllString(out, ".")
	out = strings.Trim(out, "-./")
	if strings.HasSuffix(out, ".lock") {
		out = strings.TrimSuffix(out, ".lock") + "-lock"
	}
	if out == "" {
		return "unknown-tag"
	}
	return out
}
