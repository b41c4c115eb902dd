package config

import (
	"os"
	"strings"
	"testing"
)

func chtmp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return tmp
}

func TestLoad_Defaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "." {
		t.Errorf("Root = %q, want .", cfg.Root)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.ShouldPropagate() {
		t.Error("propagation disabled by default")
	}
}

func TestLoad_File(t *testing.T) {
	chtmp(t)
	content := `root: packages
propagate: false
extra_files:
  - path: package.json
    format: json
  - path: VERSION
`
	if err := os.WriteFile(ConfigFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "packages" {
		t.Errorf("Root = %q, want packages", cfg.Root)
	}
	if cfg.ShouldPropagate() {
		t.Error("propagate: false not honored")
	}
	if len(cfg.ExtraFiles) != 2 || cfg.ExtraFiles[0].Format != "json" {
		t.Errorf("ExtraFiles = %+v", cfg.ExtraFiles)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	chtmp(t)
	if err := os.WriteFile(ConfigFile, []byte("rooot: oops\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected strict decoding to reject unknown field")
	}
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	chtmp(t)
	if err := os.WriteFile(ConfigFile, []byte("version: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Fatalf("error = %v, want unsupported config version", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	chtmp(t)
	t.Setenv(EnvRoot, "/srv/repo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != "/srv/repo" {
		t.Errorf("Root = %q, want /srv/repo", cfg.Root)
	}
}

func TestLoad_EnvTraversalRejected(t *testing.T) {
	chtmp(t)
	t.Setenv(EnvRoot, "../../etc")

	if _, err := Load(); err == nil {
		t.Fatal("expected traversal rejection")
	}
}
