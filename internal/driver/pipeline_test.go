package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/geeknik/aegis-c-compiler/internal/cache"
	"github.com/geeknik/aegis-c-compiler/internal/driver"
)

const zeroFillSrc = `void f() { own<[u8]> buf = alloc(u8, 16); view<u8> v = buf.view(); for (usize i = 0; i < v.len; i = i + 1) { v[i] = 0; } }`

func TestCompile_AcceptedProgramLowersToIR(t *testing.T) {
	opts := driver.DefaultOptions()
	res, err := driver.Compile(context.Background(), "scenario.agc", []byte(zeroFillSrc), opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
	if len(res.Artifact) == 0 {
		t.Fatal("expected a non-empty IR artifact")
	}
	if res.ExitCode() != 0 {
		t.Fatalf("expected exit code 0, got %d", res.ExitCode())
	}
}

func TestCompile_RejectedProgramSuppressesLowering(t *testing.T) {
	src := `void f() { own<[u8]> a = alloc(u8, 4); own<[u8]> b = move(a); view<u8> v = a.view(); }`
	opts := driver.DefaultOptions()
	res, err := driver.Compile(context.Background(), "scenario.agc", []byte(src), opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected at least one diagnostic")
	}
	if len(res.Artifact) != 0 {
		t.Fatalf("expected lowering to be suppressed, got artifact %q", res.Artifact)
	}
	if res.ExitCode() == 0 {
		t.Fatal("expected a non-zero exit code")
	}
}

func TestCompile_DeterministicAcrossRuns(t *testing.T) {
	opts := driver.DefaultOptions()
	a, err := driver.Compile(context.Background(), "scenario.agc", []byte(zeroFillSrc), opts)
	if err != nil {
		t.Fatalf("Compile (first run): %v", err)
	}
	b, err := driver.Compile(context.Background(), "scenario.agc", []byte(zeroFillSrc), opts)
	if err != nil {
		t.Fatalf("Compile (second run): %v", err)
	}
	if string(a.Artifact) != string(b.Artifact) {
		t.Fatalf("artifacts differ across runs:\n%s\n---\n%s", a.Artifact, b.Artifact)
	}
}

func TestCompileFile_CacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "scenario.agc")
	if err := os.WriteFile(srcPath, []byte(zeroFillSrc), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	diskCache, err := cache.Open(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("Open cache: %v", err)
	}
	opts := driver.DefaultOptions()

	first, err := driver.CompileFile(context.Background(), srcPath, opts, diskCache)
	if err != nil {
		t.Fatalf("CompileFile (cold): %v", err)
	}
	if first.FromCache {
		t.Fatal("expected the first compile to miss the cache")
	}

	second, err := driver.CompileFile(context.Background(), srcPath, opts, diskCache)
	if err != nil {
		t.Fatalf("CompileFile (warm): %v", err)
	}
	if !second.FromCache {
		t.Fatal("expected the second compile to hit the cache")
	}
	if string(first.Artifact) != string(second.Artifact) {
		t.Fatalf("cache hit diverged from a fresh run:\n%s\n---\n%s", first.Artifact, second.Artifact)
	}
}

func TestCompileFile_NilCacheIsFreshEveryTime(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "scenario.agc")
	if err := os.WriteFile(srcPath, []byte(zeroFillSrc), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	opts := driver.DefaultOptions()
	res, err := driver.CompileFile(context.Background(), srcPath, opts, nil)
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if res.FromCache {
		t.Fatal("a nil cache must never report a hit")
	}
}
