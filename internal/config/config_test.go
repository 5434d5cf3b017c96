package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
http:
  listen_addr: ":8080"
  cors_origin: "https://trio.example"
  write_timeout: 20s
database:
  dsn: "trio:placeholder@tcp(localhost:3306)/trio"
  migrate: true
auth:
  jwt_secret: "dev-secret"
seed:
  artists: true
`

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadFromYAMLAndEnv(t *testing.T) {
	root := writeConf(t, sampleYAML)
	t.Setenv("TRIO_HTTP__LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("TRIO_LOG__LEVEL", "debug")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("listen_addr = %q, want env override", cfg.HTTP.ListenAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
	if cfg.HTTP.WriteTimeout != 20*time.Second || cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.HTTP.WriteTimeout, cfg.HTTP.ReadTimeout)
	}
	if !cfg.Database.Migrate || !cfg.Seed.Artists {
		t.Errorf("bool flags not loaded: %+v %+v", cfg.Database, cfg.Seed)
	}
	if cfg.Broker.Exchange != "trio.pins" {
		t.Errorf("broker default = %q", cfg.Broker.Exchange)
	}
	if cfg.Paths.Root != root || cfg.LogDir() != filepath.Join(root, "logs") {
		t.Errorf("paths = %q, %q", cfg.Paths.Root, cfg.LogDir())
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing dsn":   "http:\n  listen_addr: \":8080\"\nauth:\n  jwt_secret: x\n",
		"bad addr":      "http:\n  listen_addr: \"nope\"\ndatabase:\n  dsn: d\nauth:\n  jwt_secret: x\n",
		"no jwt":        "http:\n  listen_addr: \":8080\"\ndatabase:\n  dsn: d\n",
		"bad level":     "http:\n  listen_addr: \":8080\"\ndatabase:\n  dsn: d\nauth:\n  jwt_secret: x\nlog:\n  level: loud\n",
		"bad vault ref": "http:\n  listen_addr: \":8080\"\ndatabase:\n  dsn: d\n  password_secret: secret/trio\nauth:\n  jwt_secret: x\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(writeConf(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

type fakeVault map[string]string

func (f fakeVault) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	if v, ok := f[path+"#"+key]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestResolveSecrets(t *testing.T) {
	cfg := &Config{
		Database: Database{PasswordSecret: "secret/trio/db#password"},
		Auth:     Auth{JWTSecretSecret: "secret/trio/auth#jwt"},
	}
	if !cfg.HasSecrets() {
		t.Fatal("HasSecrets = false")
	}
	err := cfg.ResolveSecrets(context.Background(), fakeVault{
		"secret/trio/db#password": "pw",
		"secret/trio/auth#jwt":    "signing-key",
	})
	if err != nil {
		t.Fatalf("ResolveSecrets: %v", err)
	}
	if cfg.Database.Password != "pw" || cfg.Auth.JWTSecret != "signing-key" {
		t.Fatalf("resolved = %+v %+v", cfg.Database, cfg.Auth)
	}

	missing := &Config{Auth: Auth{JWTSecretSecret: "secret/trio/auth#nope"}}
	if err := missing.ResolveSecrets(context.Background(), fakeVault{}); err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestSplitRef(t *testing.T) {
	if p, k, err := splitRef("kv/app#token"); err != nil || p != "kv/app" || k != "token" {
		t.Fatalf("splitRef = %q %q %v", p, k, err)
	}
	for _, bad := range []string{"kv/app", "#k", "kv/app#"} {
		if _, _, err := splitRef(bad); err == nil {
			t.Errorf("splitRef(%q) accepted", bad)
		}
	}
}
