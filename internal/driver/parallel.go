package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/geeknik/aegis-c-compiler/internal/core"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/sema"
	"github.com/geeknik/aegis-c-compiler/internal/source"
	"github.com/geeknik/aegis-c-compiler/internal/typesys"
)

// checkConcurrently type-checks every function in prog. The borrow
// ledger and initialization map the checker threads
// through one function body (internal/sema's state) never cross a
// function boundary, and the only table two concurrently-checked
// functions both read — sema.StructFields — is built once up front and
// never written to afterward, so functions can be checked on separate
// goroutines without any locking in internal/sema itself.
//
// Diagnostics from each worker land in its own bag and are merged into
// dst only after every worker finishes, in prog.Items order — so the
// observable diagnostic set for a given input is identical to
// sema.Check's sequential walk regardless of how the goroutines
// interleave; bag.Sort re-establishes total order on
// top of this for the final render).
func checkConcurrently(ctx context.Context, prog *core.Program, types *typesys.Interner, in *source.Interner, dst *diag.Bag, jobs int) error {
	fields := sema.StructFields(prog)

	var fns []*core.Item
	for _, id := range prog.Items {
		it := prog.ItemArena.Get(id)
		if it != nil && it.Kind == core.ItemFn {
			fns = append(fns, it)
		}
	}
	if len(fns) == 0 {
		return nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bags := make([]*diag.Bag, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, it := range fns {
		i, it := i, it
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			localBag := diag.NewBag(0)
			c := sema.NewChecker(prog, types, in, fields)
			c.CheckItem(it, localBag)
			bags[i] = localBag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, b := range bags {
		dst.Merge(b)
	}
	return nil
}
