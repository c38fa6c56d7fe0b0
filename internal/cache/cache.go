// Package cache is an on-disk cache of rendered compiler artifacts, keyed
// by a digest of (source bytes, emit target, mode, strict-init). A cache
// hit must produce byte-identical output to a fresh run, so entries
// store the fully rendered artifact and
// diagnostic bytes, never a derived approximation that could drift from
// what the pipeline would emit today.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion guards against decoding a payload written by an
// incompatible older or newer build of aegiscc.
const schemaVersion uint16 = 1

// Key identifies one cacheable compilation: a source unit compiled under
// one fixed set of flags that affect its output.
type Key struct {
	SourceHash [32]byte
	Emit       string
	Mode       string
	StrictInit bool
}

// Digest returns the SHA-256 digest that names this key's on-disk entry.
func (k Key) Digest() [32]byte {
	h := sha256.New()
	h.Write(k.SourceHash[:])
	h.Write([]byte{0})
	h.Write([]byte(k.Emit))
	h.Write([]byte{0})
	h.Write([]byte(k.Mode))
	h.Write([]byte{0})
	if k.StrictInit {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Payload is the cached result of one compile: the exact bytes the
// pipeline rendered for the requested --emit target, the exact
// diagnostic bytes it rendered, and the exit code the invocation
// produced.
type Payload struct {
	Schema      uint16
	Artifact    []byte
	Diagnostics []byte
	ExitCode    int
	HasErrors   bool
}

// Disk is a thread-safe, msgpack-serialized cache rooted at a directory.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes (creating if absent) a disk cache under dir.
func Open(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

// OpenDefault opens the cache at the standard XDG-style location for app.
func OpenDefault(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

func (d *Disk) pathFor(digest [32]byte) string {
	return filepath.Join(d.dir, "artifacts", hex.EncodeToString(digest[:])+".mp")
}

// Put atomically writes payload under key.
func (d *Disk) Put(key Key, payload Payload) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	payload.Schema = schemaVersion
	p := d.pathFor(key.Digest())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads a payload for key. ok is false when no entry exists, or the
// entry was written by an incompatible schema version.
func (d *Disk) Get(key Key) (payload Payload, ok bool, err error) {
	if d == nil {
		return Payload{}, false, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, err := os.Open(d.pathFor(key.Digest()))
	if err != nil {
		if os.IsNotExist(err) {
			return Payload{}, false, nil
		}
		return Payload{}, false, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return Payload{}, false, err
	}
	if p.Schema != schemaVersion {
		return Payload{}, false, nil
	}
	return p, true, nil
}
