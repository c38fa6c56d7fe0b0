// Package driver wires the lexer/parser, desugarer, checker, and IR
// lowerer (internal/parser, internal/core, internal/sema, internal/ir)
// into a single compile invocation: a strict phase
// sequence with a diagnostic sink consulted at each phase boundary, and
// a fresh set of identifier tables per invocation.
package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/geeknik/aegis-c-compiler/internal/ast"
	"github.com/geeknik/aegis-c-compiler/internal/cache"
	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/ir"
	"github.com/geeknik/aegis-c-compiler/internal/parser"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// Emit selects which of the three pipeline artifacts a compile renders.
type Emit string

const (
	EmitAST  Emit = "ast"
	EmitCore Emit = "core"
	EmitIR   Emit = "ir"
)

// Mode is the module-level default strictness. It is carried into the
// cache key, but no checker rule reads it in v0: Compat behaves exactly
// like Safe, and Unsafe does not lift the requirement that a raw pointer
// dereference sit inside an explicit `unsafe {}` block
// (E6RawDerefOutsideUnsafe is reported under every mode).
type Mode string

const (
	ModeSafe   Mode = "safe"
	ModeCompat Mode = "compat"
	ModeUnsafe Mode = "unsafe"
)

// Options configures one Compile call, one-to-one with the CLI's
// persistent flags.
type Options struct {
	Emit           Emit
	Mode           Mode
	StrictInit     bool
	Jobs           int
	MaxDiagnostics int

	// Progress, if non-nil, receives one value per phase transition. Each
	// send blocks until it is received, so a caller that passes a channel
	// (internal/ui) keeps it drained from a separate goroutine for the
	// duration of the compile.
	Progress chan<- Phase
}

// DefaultOptions matches the CLI's documented defaults: emit ir,
// mode safe, strict-init on (v0 has no non-strict mode).
func DefaultOptions() Options {
	return Options{Emit: EmitIR, Mode: ModeSafe, StrictInit: true, Jobs: 0, MaxDiagnostics: 100}
}

// Result is everything a caller needs to render a compile's outcome: the
// rendered artifact bytes for the requested emit target, the full
// diagnostic bag, and the FileSet needed to resolve spans back to
// source text.
type Result struct {
	Artifact  []byte
	Bag       *diag.Bag
	FileSet   *source.FileSet
	FromCache bool
}

// ExitCode reports the exit status: 0 iff no diagnostics.
func (r *Result) ExitCode() int {
	if r.Bag != nil && r.Bag.Len() > 0 {
		return 1
	}
	return 0
}

// CompileFile reads path from disk and compiles it per opts. diskCache
// may be nil, in which case every call runs the pipeline fresh.
func CompileFile(ctx context.Context, path string, opts Options, diskCache *cache.Disk) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	key := cacheKey(content, opts)
	if payload, ok, err := diskCache.Get(key); err == nil && ok {
		fs := source.NewFileSet()
		fs.AddFile(path, content)
		bag, decodeErr := decodeDiagnostics(payload.Diagnostics)
		if decodeErr == nil {
			return &Result{Artifact: payload.Artifact, Bag: bag, FileSet: fs, FromCache: true}, nil
		}
		// A payload that fails to decode is treated as a miss rather
		// than a fatal error — determinism is about a hit matching
		// a fresh run byte-for-byte, not about the cache always working.
	}

	res, err := Compile(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}

	encodedDiags, encodeErr := encodeDiagnostics(res.Bag)
	if encodeErr == nil {
		_ = diskCache.Put(key, cache.Payload{
			Artifact:    res.Artifact,
			Diagnostics: encodedDiags,
			ExitCode:    res.ExitCode(),
			HasErrors:   res.Bag.HasErrors(),
		})
	}
	return res, nil
}

// Compile runs the full pipeline over in-memory source content already
// read from path. It never touches the filesystem itself, so tests and
// the disk cache path can both drive it directly.
func Compile(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fid := fs.AddFile(path, content)

	b := ast.NewBuilder(ast.Hints{})
	in := source.NewInterner()
	bag := diag.NewBag(opts.MaxDiagnostics)

	emit(opts.Progress, PhaseParse)
	parseRes := parser.ParseFile(fs.Get(fid), b, in, bag, parser.Options{MaxErrors: uint(opts.MaxDiagnostics)})

	emit(opts.Progress, PhaseDesugar)
	types := typesys.NewInterner()
	prog := core.Desugar(b, in, types, bag, parseRes.File)

	// The checker always runs to completion over the whole unit
	// before stopping, independent of --emit, so `--emit ast` still
	// reports every semantic diagnostic and still yields a non-zero
	// exit code for a program the checker would reject.
	emit(opts.Progress, PhaseCheck)
	if err := checkConcurrently(ctx, prog, types, in, bag, opts.Jobs); err != nil {
		return nil, err
	}

	bag.Sort()

	var artifact []byte
	switch opts.Emit {
	case EmitAST:
		artifact = []byte(ast.Print(b, in, parseRes.File))
	case EmitCore:
		artifact = []byte(core.Print(prog, in))
	case EmitIR, "":
		// Lowering runs only if the checker produced zero diagnostics —
		// any recorded diagnostic suppresses it, not just an
		// error-severity one.
		if bag.Len() == 0 {
			emit(opts.Progress, PhaseLower)
			mod := ir.Lower(prog, types, in)
			artifact = []byte(ir.Print(mod, in))
		}
	default:
		return nil, fmt.Errorf("unknown emit target %q", opts.Emit)
	}
	emit(opts.Progress, PhaseDone)

	return &Result{Artifact: artifact, Bag: bag, FileSet: fs}, nil
}

func cacheKey(content []byte, opts Options) cache.Key {
	return cache.Key{
		SourceHash: sha256Sum(content),
		Emit:       string(opts.Emit),
		Mode:       string(opts.Mode),
		StrictInit: opts.StrictInit,
	}
}
