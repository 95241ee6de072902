package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := write(t, "config.toml", `
user = "alice"
currency = "EUR"

[cache]
driver = "sqlite"
path = "/var/lib/budget"

[remote]
url = "http://localhost:8080"
timeout = "5s"

[server]
metrics = true
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := Default()
	want.User = "alice"
	want.Currency = "EUR"
	want.Cache = CacheConfig{Driver: "sqlite", Path: "/var/lib/budget"}
	want.Remote = RemoteConfig{URL: "http://localhost:8080", Timeout: 5 * time.Second}
	want.Server.Metrics = true
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.CachePath(); got != "/var/lib/budget/budget.db" {
		t.Errorf("CachePath() = %q", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := write(t, "config.toml", `user = "alice"`)
	env := write(t, ".env", "BUDGET_CURRENCY=USD\n")
	t.Setenv("BUDGET_USER", "bob")
	t.Setenv("BUDGET_REMOTE_TIMEOUT", "2m")
	t.Setenv("BUDGET_SERVER_METRICS", "true")
	// godotenv never overrides a variable already set.
	t.Setenv("BUDGET_CURRENCY", "")
	os.Unsetenv("BUDGET_CURRENCY")

	cfg, err := Load(path, env)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.User != "bob" || cfg.Currency != "USD" || cfg.Remote.Timeout != 2*time.Minute || !cfg.Server.Metrics {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    `colour = "blue"`,
		"syntax":         `user = `,
		"unknown driver": "[cache]\ndriver = \"redis\"",
		"both remotes":   "[remote]\nurl = \"http://x\"\ndsn = \"postgres://x\"",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, "config.toml", content), ""); err == nil {
				t.Errorf("Load() should fail")
			}
		})
	}
}
