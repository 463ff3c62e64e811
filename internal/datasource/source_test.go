package datasource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAgenda(t *testing.T, path string) {
	t.Helper()
	body := "stages:\n  - name: Main\nshows:\n  - name: Opener\n    artists: [Band]\n    stage: Main\n    start: \"09:00\"\n    end: \"10:00\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDiscoverFromEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fest.yaml")
	writeAgenda(t, path)
	t.Setenv(EnvAgenda, path)

	got, err := Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got != path {
		t.Errorf("Discover() = %q, want %q", got, path)
	}
}

func TestDiscoverEnvVarMissing(t *testing.T) {
	t.Setenv(EnvAgenda, "/nonexistent/path/agenda.yaml")

	if _, err := Discover(); err == nil {
		t.Error("Discover should fail when AGV_AGENDA points to a nonexistent file")
	}
}

func TestDiscoverFromCWD(t *testing.T) {
	dir := t.TempDir()
	writeAgenda(t, filepath.Join(dir, "agenda.yaml"))
	t.Setenv(EnvAgenda, "")
	chdir(t, dir)

	path, err := Discover()
	if err != nil {
		t.Fatalf("Discover from CWD: %v", err)
	}
	if filepath.Base(path) != "agenda.yaml" || !filepath.IsAbs(path) {
		t.Errorf("expected an absolute agenda.yaml path, got %q", path)
	}
}

func TestDiscoverFromParentDir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "agenda.yaml")
	writeAgenda(t, want)

	childDir := filepath.Join(dir, "sub", "deep")
	if err := os.MkdirAll(childDir, 0o755); err != nil {
		t.Fatalf("MkdirAll child: %v", err)
	}
	t.Setenv(EnvAgenda, "")
	chdir(t, childDir)

	path, err := Discover()
	if err != nil {
		t.Fatalf("Discover from parent: %v", err)
	}
	// Resolve symlinks for comparison (macOS /var -> /private/var).
	resolvedPath, _ := filepath.EvalSymlinks(path)
	resolvedExpect, _ := filepath.EvalSymlinks(want)
	if resolvedPath != resolvedExpect {
		t.Errorf("Discover() = %q, want %q", path, want)
	}
}

func TestDiscoverNoAgenda(t *testing.T) {
	t.Setenv(EnvAgenda, "")
	chdir(t, t.TempDir())

	if _, err := Discover(); err == nil {
		t.Error("Discover should fail when no agenda exists")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore Chdir: %v", err)
		}
	})
}
