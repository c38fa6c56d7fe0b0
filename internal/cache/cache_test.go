package cache

import (
	"crypto/sha256"
	"testing"
)

func TestKeyDigestStable(t *testing.T) {
	k := Key{SourceHash: sha256.Sum256([]byte("void f() {}")), Emit: "ir", Mode: "safe", StrictInit: true}
	a := k.Digest()
	b := k.Digest()
	if a != b {
		t.Fatal("Digest is not deterministic across calls")
	}
}

func TestKeyDigestDistinguishesFlags(t *testing.T) {
	base := Key{SourceHash: sha256.Sum256([]byte("void f() {}")), Emit: "ir", Mode: "safe"}
	other := base
	other.StrictInit = true
	if base.Digest() == other.Digest() {
		t.Fatal("StrictInit did not affect the digest")
	}
	other = base
	other.Emit = "core"
	if base.Digest() == other.Digest() {
		t.Fatal("Emit did not affect the digest")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key{SourceHash: sha256.Sum256([]byte("void f() {}")), Emit: "ir", Mode: "safe"}
	want := Payload{Artifact: []byte("(module ...)"), Diagnostics: nil, ExitCode: 0}

	if err := d.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := d.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Artifact) != string(want.Artifact) {
		t.Fatalf("Artifact mismatch: got %q want %q", got.Artifact, want.Artifact)
	}
}

func TestGetMiss(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, ok, err := d.Get(Key{SourceHash: sha256.Sum256([]byte("nope"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
}

func TestNilDiskIsNoOp(t *testing.T) {
	var d *Disk
	if err := d.Put(Key{}, Payload{}); err != nil {
		t.Fatalf("Put on nil Disk should be a no-op: %v", err)
	}
	_, ok, err := d.Get(Key{})
	if err != nil || ok {
		t.Fatalf("Get on nil Disk should miss cleanly: ok=%v err=%v", ok, err)
	}
}
