package bump

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/indaco/relmate/internal/clix"
	"github.com/indaco/relmate/internal/config"
	"github.com/indaco/relmate/internal/core"
	"github.com/indaco/relmate/internal/semver"
	"github.com/urfave/cli/v3"
)

func workspaceFS() *core.MockFileSystem {
	fs := core.NewMockFileSystem()
	fs.SetFile("repo/Cargo.toml", []byte(`[workspace]
members = ["crates/*"]
`))
	fs.SetFile("repo/crates/alpha/Cargo.toml", []byte(`[package]
name = "alpha"
version = "1.2.3"
`))
	fs.SetFile("repo/crates/beta/Cargo.toml", []byte(`[package]
name = "beta"
version = "1.2.3"

[dependencies]
alpha = { path = "../alpha", version = "1.2.3" }
`))
	return fs
}

func withMockFS(t *testing.T, fs *core.MockFileSystem) {
	t.Helper()
	orig := clix.NewFileSystem
	clix.NewFileSystem = func() core.FileSystem { return fs }
	t.Cleanup(func() { clix.NewFileSystem = orig })
}

func runBump(t *testing.T, cfg *config.Config, out *bytes.Buffer, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "relmate",
		Writer:   out,
		Commands: []*cli.Command{Run(cfg)},
	}
	return app.Run(context.Background(), append([]string{"relmate"}, args...))
}

func TestBumpVersion_Workspace(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-w", "--yes", "minor"); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}

	alpha, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(alpha), `version = "1.3.0"`) {
		t.Errorf("alpha manifest not updated:\n%s", alpha)
	}
	beta, _ := fs.GetFile("repo/crates/beta/Cargo.toml")
	if !strings.Contains(string(beta), `version = "1.3.0" }`) {
		t.Errorf("beta dependency not propagated:\n%s", beta)
	}
	if !strings.Contains(out.String(), "alpha") || !strings.Contains(out.String(), "1.3.0") {
		t.Errorf("output missing change report:\n%s", out.String())
	}
}

func TestBumpVersion_StartPrerelease(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-p", "alpha", "major", "alpha"); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}

	got, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(got), `version = "2.0.0-alpha.1"`) {
		t.Errorf("alpha manifest = %s", got)
	}
}

func TestBumpPrerelease_Increment(t *testing.T) {
	fs := workspaceFS()
	fs.SetFile("repo/crates/alpha/Cargo.toml", []byte(`[package]
name = "alpha"
version = "1.2.3-rc.1"
`))
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "prerelease", "-p", "alpha"); err != nil {
		t.Fatalf("bump prerelease failed: %v", err)
	}

	got, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(got), `version = "1.2.3-rc.2"`) {
		t.Errorf("alpha manifest = %s", got)
	}
}

func TestBumpRelease_Finalize(t *testing.T) {
	fs := workspaceFS()
	fs.SetFile("repo/crates/alpha/Cargo.toml", []byte(`[package]
name = "alpha"
version = "1.2.3-rc.2"
`))
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "release", "-p", "alpha"); err != nil {
		t.Fatalf("bump release failed: %v", err)
	}

	got, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(got), `version = "1.2.3"`) {
		t.Errorf("alpha manifest = %s", got)
	}
}

func TestBumpRelease_OnReleaseFails(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	err := runBump(t, cfg, &out, "bump", "release", "-p", "alpha")
	var terr *semver.TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want a TransitionError", err)
	}
}

func TestBump_DryRun(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-w", "--dry-run", "patch"); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	got, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(got), `version = "1.2.3"`) {
		t.Errorf("dry run modified the manifest:\n%s", got)
	}
	if !strings.Contains(out.String(), "[dry-run]") {
		t.Errorf("output missing dry-run marker:\n%s", out.String())
	}
}

func TestBump_NoPropagate(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-w", "--yes", "--no-propagate", "minor"); err != nil {
		t.Fatalf("bump failed: %v", err)
	}

	beta, _ := fs.GetFile("repo/crates/beta/Cargo.toml")
	if !strings.Contains(string(beta), `version = "1.2.3" }`) {
		t.Errorf("dependency version rewritten despite --no-propagate:\n%s", beta)
	}
}

func TestBump_ExtraFiles(t *testing.T) {
	fs := workspaceFS()
	fs.SetFile("repo/package.json", []byte(`{"version":"1.2.3"}`))
	withMockFS(t, fs)
	cfg := &config.Config{
		Version:    1,
		Root:       "repo",
		ExtraFiles: []config.ExtraFileConfig{{Path: "package.json"}},
	}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-w", "--yes", "minor"); err != nil {
		t.Fatalf("bump failed: %v", err)
	}

	got, _ := fs.GetFile("repo/package.json")
	if !strings.Contains(string(got), `"version":"1.3.0"`) {
		t.Errorf("package.json = %s", got)
	}
}

func TestBump_ExtraFiles_UnknownFormat(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{
		Version:    1,
		Root:       "repo",
		ExtraFiles: []config.ExtraFileConfig{{Path: "notes.txt", Format: "ini"}},
	}

	var out bytes.Buffer
	err := runBump(t, cfg, &out, "bump", "version", "-w", "--yes", "minor")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("error = %v, want unsupported format", err)
	}
}

func TestBump_WriteFailureReportsNothing(t *testing.T) {
	fs := workspaceFS()
	fs.WriteErr = os.ErrPermission
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	err := runBump(t, cfg, &out, "bump", "version", "-w", "--yes", "minor")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("error = %v, want os.ErrPermission", err)
	}
	if strings.Contains(out.String(), "bumped") {
		t.Errorf("failed run still reported success:\n%s", out.String())
	}
}

func TestBumpVersion_BadLevel(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version", "-w", "gigantic"); err == nil {
		t.Fatal("expected level parse error")
	}
}

func TestBumpVersion_MissingLevel(t *testing.T) {
	fs := workspaceFS()
	withMockFS(t, fs)
	cfg := &config.Config{Version: 1, Root: "repo"}

	var out bytes.Buffer
	if err := runBump(t, cfg, &out, "bump", "version"); err == nil {
		t.Fatal("expected argument error")
	}
}
