package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SecretGetter reads one key of a KV-v2 secret.  *vault.Client satisfies it.
type SecretGetter interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// HasSecrets reports whether any Vault reference is configured.
func (c *Config) HasSecrets() bool {
	return c.Database.PasswordSecret != "" || c.Auth.JWTSecretSecret != "" || c.Broker.URLSecret != ""
}

// ResolveSecrets replaces every configured Vault reference with its value.
// A reference overrides any plain value already present.
func (c *Config) ResolveSecrets(ctx context.Context, g SecretGetter) error {
	refs := []struct {
		name string
		ref  string
		dst  *string
	}{
		{"database.password_secret", c.Database.PasswordSecret, &c.Database.Password},
		{"auth.jwt_secret_secret", c.Auth.JWTSecretSecret, &c.Auth.JWTSecret},
		{"broker.url_secret", c.Broker.URLSecret, &c.Broker.URL},
	}
	for _, r := range refs {
		if r.ref == "" {
			continue
		}
		path, key, err := splitRef(r.ref)
		if err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
		val, err := g.GetKV(ctx, path, key, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
		*r.dst = val
		zap.S().Debugw("config secret resolved", "field", r.name, "path", path)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret resolved empty")
	}
	return nil
}

// splitRef parses "mount/path#key".
func splitRef(ref string) (path, key string, err error) {
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("malformed vault reference %q", ref)
	}
	return path, key, nil
}
