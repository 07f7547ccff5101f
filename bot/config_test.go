package bot

import (
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/linkbot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  run_mode: polling
database:
  host: ""
catalog:
  path: "apps.yaml"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.CoreConfig().Telegram.Token; got != "123:abc" {
		t.Fatalf("token = %q", got)
	}
	// "polling" is accepted as an alias and normalised.
	if got := cfg.CoreConfig().Telegram.RunMode; got != coreconfig.RunModeLongpoll {
		t.Fatalf("run_mode = %q", got)
	}
	if cfg.Catalog.Path != "apps.yaml" {
		t.Fatalf("catalog path = %q", cfg.Catalog.Path)
	}
	if cfg.Database.Host != "" {
		t.Fatalf("database host = %q", cfg.Database.Host)
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("config without token accepted")
	}
}
