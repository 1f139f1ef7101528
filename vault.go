package tokensync

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hellenic-development/token-sync/pkg/config"
)

// SecretResolver replaces secret references in the configuration with their
// resolved values before any stage that needs them runs.
type SecretResolver interface {
	ResolveSecrets(ctx context.Context, cfg *config.Config) error
}

// EnvResolver resolves "env:NAME" references from the process environment.
// Plain values pass through untouched, so configurations without secret
// references resolve as a no-op.
type EnvResolver struct{}

func (EnvResolver) ResolveSecrets(_ context.Context, cfg *config.Config) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"figma access token", &cfg.Figma.AccessToken},
		{"git auth token", &cfg.Git.AuthToken},
		{"license api key", &cfg.License.APIKey},
		{"vault token", &cfg.Vault.Token},
	}

	for _, f := range fields {
		resolved, err := resolveRef(f.name, *f.value)
		if err != nil {
			return err
		}
		*f.value = resolved
	}
	return nil
}

func resolveRef(name, value string) (string, error) {
	ref, ok := strings.CutPrefix(value, "env:")
	if !ok {
		return value, nil
	}
	resolved := os.Getenv(strings.TrimSpace(ref))
	if resolved == "" {
		return "", fmt.Errorf("%s references unset environment variable %q", name, strings.TrimSpace(ref))
	}
	return resolved, nil
}
