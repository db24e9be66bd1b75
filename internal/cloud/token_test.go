package cloud

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCLIConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing cli config: %v", err)
	}
	return path
}

func TestResolveToken(t *testing.T) {
	t.Run("environment variable wins", func(t *testing.T) {
		path := writeCLIConfig(t, `
active_context = "prod"

[[contexts]]
  name = "prod"
  token = "from-file"
`)
		token, err := resolveToken("from-env", path)
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if token != "from-env" {
			t.Errorf("token = %q, want from-env", token)
		}
	})

	t.Run("falls back to active hcloud context", func(t *testing.T) {
		path := writeCLIConfig(t, `
active_context = "staging"

[[contexts]]
  name = "prod"
  token = "prod-token"

[[contexts]]
  name = "staging"
  token = "staging-token"
`)
		token, err := resolveToken("", path)
		if err != nil {
			t.Fatalf("resolveToken() error = %v", err)
		}
		if token != "staging-token" {
			t.Errorf("token = %q, want staging-token", token)
		}
	})

	t.Run("missing everything yields guidance", func(t *testing.T) {
		_, err := resolveToken("", filepath.Join(t.TempDir(), "absent.toml"))
		if err == nil {
			t.Fatal("resolveToken() expected error")
		}
		if !strings.Contains(err.Error(), "HCLOUD_TOKEN") {
			t.Errorf("error %q does not mention HCLOUD_TOKEN", err)
		}
	})

	t.Run("config without active context is rejected", func(t *testing.T) {
		path := writeCLIConfig(t, `
[[contexts]]
  name = "prod"
  token = "prod-token"
`)
		if _, err := tokenFromCLIConfig(path); err == nil {
			t.Error("tokenFromCLIConfig() expected error")
		}
	})
}
