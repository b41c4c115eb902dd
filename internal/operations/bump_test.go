package operations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/relmate/internal/core"
	"github.com/indaco/relmate/internal/manifest"
	"github.com/indaco/relmate/internal/semver"
	"github.com/indaco/relmate/internal/workspace"
)

func batchFS() *core.MockFileSystem {
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
serde = "1.0"
`))
	return fs
}

func loadBatch(t *testing.T, fs *core.MockFileSystem) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Load(context.Background(), fs, "repo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return ws
}

func TestCompute(t *testing.T) {
	ws := loadBatch(t, batchFS())

	plan, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelMinor, ""), true)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if len(plan.Changes) != 2 {
		t.Fatalf("change count = %d, want 2", len(plan.Changes))
	}
	for _, c := range plan.Changes {
		if c.From.String() != "1.2.3" || c.To.String() != "1.3.0" {
			t.Errorf("change %s: %s to %s, want 1.2.3 to 1.3.0", c.Package.Name, c.From, c.To)
		}
	}

	if len(plan.DepUpdates) != 1 {
		t.Fatalf("dep update count = %d, want 1", len(plan.DepUpdates))
	}
	u := plan.DepUpdates[0]
	if u.Dependent != "beta" || u.Dependency != "alpha" || u.To.String() != "1.3.0" {
		t.Errorf("dep update = %+v", u)
	}
}

func TestCompute_NoPropagate(t *testing.T) {
	ws := loadBatch(t, batchFS())

	plan, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelPatch, ""), false)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(plan.DepUpdates) != 0 {
		t.Errorf("dep updates = %v, want none", plan.DepUpdates)
	}
}

func TestCompute_PropagatesOnlyToSelected(t *testing.T) {
	ws := loadBatch(t, batchFS())
	beta, _ := ws.PackageByName("beta")

	// Bumping only beta changes nothing alpha depends on.
	plan, err := Compute(ws, []*workspace.Package{beta}, semver.BumpRelease(semver.LevelMajor, ""), true)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(plan.DepUpdates) != 0 {
		t.Errorf("dep updates = %v, want none", plan.DepUpdates)
	}
}

func TestCompute_FailsAtomically(t *testing.T) {
	fs := batchFS()
	// beta is a prerelease; a release bump over the whole workspace
	// must fail for the batch, not just for beta.
	fs.SetFile("repo/crates/beta/Cargo.toml", []byte(`[package]
name = "beta"
version = "1.2.3-alpha.1"
`))
	ws := loadBatch(t, fs)

	_, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelMinor, ""), true)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	var terr *semver.TransitionError
	if !errors.As(err, &terr) {
		t.Errorf("error = %v, want a TransitionError", err)
	}
	if !strings.Contains(err.Error(), "beta") {
		t.Errorf("error %q does not name the failing package", err)
	}
}

func TestApply(t *testing.T) {
	fs := batchFS()
	ws := loadBatch(t, fs)

	plan, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelMinor, ""), true)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if err := plan.Apply(context.Background(), fs, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	alphaManifest, _ := fs.GetFile("repo/crates/alpha/Cargo.toml")
	if !strings.Contains(string(alphaManifest), `version = "1.3.0"`) {
		t.Errorf("alpha manifest not updated:\n%s", alphaManifest)
	}

	betaManifest, _ := fs.GetFile("repo/crates/beta/Cargo.toml")
	content := string(betaManifest)
	if !strings.Contains(content, `alpha = { path = "../alpha", version = "1.3.0" }`) {
		t.Errorf("beta dependency not propagated:\n%s", content)
	}
	if !strings.Contains(content, `serde = "1.0"`) {
		t.Errorf("registry dependency touched:\n%s", content)
	}
}

func TestApply_ExtraFiles(t *testing.T) {
	fs := batchFS()
	fs.SetFile("repo/package.json", []byte(`{"version":"1.2.3"}`))
	ws := loadBatch(t, fs)

	plan, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelMinor, ""), true)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	extras := []manifest.ExtraFile{{Path: "repo/package.json", Format: manifest.FormatJSON}}
	if err := plan.Apply(context.Background(), fs, extras); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	got, _ := fs.GetFile("repo/package.json")
	if !strings.Contains(string(got), `"version":"1.3.0"`) {
		t.Errorf("package.json = %s", got)
	}
}

func TestCompute_EmptySelection(t *testing.T) {
	ws := loadBatch(t, batchFS())
	if _, err := Compute(ws, nil, semver.FinalizeRelease(""), true); !errors.Is(err, workspace.ErrNoPackages) {
		t.Errorf("error = %v, want ErrNoPackages", err)
	}
}

func TestSingleTarget(t *testing.T) {
	ws := loadBatch(t, batchFS())

	plan, err := Compute(ws, ws.Packages, semver.BumpRelease(semver.LevelMinor, ""), false)
	if err != nil {
		t.Fatal(err)
	}
	target, ok := plan.SingleTarget()
	if !ok || target.String() != "1.3.0" {
		t.Errorf("SingleTarget = %s, %v; want 1.3.0, true", target, ok)
	}

	empty := &Plan{}
	if _, ok := empty.SingleTarget(); ok {
		t.Error("empty plan reported a single target")
	}
}
