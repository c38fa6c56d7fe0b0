package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifestFileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoad_NoManifest(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest found, got %+v", m)
	}
}

func TestLoad_ValidManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "demo"

[defaults]
mode = "safe"
strict_init = true
`)
	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected manifest found")
	}
	if m.Config.Module.Name != "demo" {
		t.Fatalf("got module name %q", m.Config.Module.Name)
	}
	if !m.Config.Defaults.StrictInit {
		t.Fatal("expected strict_init true")
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "demo"

[defaults]
mode = "turbo"
`)
	if _, _, err := Load(dir); err == nil {
		t.Fatal("expected an error for an invalid mode")
	}
}

func TestFind_WalksUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[module]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found manifest at %q, want root %q", path, root)
	}
}
