package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/DarlingtonDeveloper/listkey/hashid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Keyer.Hasher != "sha1" {
		t.Errorf("expected sha1, got %s", cfg.Keyer.Hasher)
	}
	if cfg.Keyer.ProbeWarn != 3 {
		t.Errorf("expected probe_warn 3, got %d", cfg.Keyer.ProbeWarn)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "listkey.yaml")
	content := []byte("server:\n  port: 9090\n  auth_token: secret\nkeyer:\n  hasher: xxh3\n  probe_warn: 5\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.AuthToken != "secret" {
		t.Errorf("unexpected server section: %+v", cfg.Server)
	}
	if cfg.Keyer.Hasher != "xxh3" || cfg.Keyer.ProbeWarn != 5 {
		t.Errorf("unexpected keyer section: %+v", cfg.Keyer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LISTKEY_KEYER_HASHER", "xxh3")
	t.Setenv("LISTKEY_SERVER_PORT", "7000")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Keyer.Hasher != "xxh3" {
		t.Errorf("expected env hasher xxh3, got %s", cfg.Keyer.Hasher)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected env port 7000, got %d", cfg.Server.Port)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LISTKEY_SERVER_PORT", "7000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	fs.String("hasher", "sha1", "")
	if err := fs.Parse([]string{"--port", "9999"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected flag port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Keyer.Hasher != "sha1" {
		t.Errorf("expected unset flag to fall through to default, got %s", cfg.Keyer.Hasher)
	}
}

func TestLoadRejectsUnknownHasher(t *testing.T) {
	t.Setenv("LISTKEY_KEYER_HASHER", "md5")
	_, err := Load("", nil)
	if !errors.Is(err, hashid.ErrUnknownHasher) {
		t.Errorf("expected ErrUnknownHasher, got %v", err)
	}
}

func TestNewKeyer(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Keyer.Hasher = "xxh3"
	k, err := cfg.NewKeyer(nil)
	if err != nil {
		t.Fatalf("NewKeyer failed: %v", err)
	}
	keys := k.Keys([]any{"a"})
	if keys[0] != hashid.XXH3("a") {
		t.Errorf("expected xxh3 digest, got %s", keys[0])
	}
}
