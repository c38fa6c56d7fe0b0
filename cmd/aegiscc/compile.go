package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/geeknik/aegis-c-compiler/internal/cache"
	"github.com/geeknik/aegis-c-compiler/internal/diag"
	"github.com/geeknik/aegis-c-compiler/internal/driver"
	"github.com/geeknik/aegis-c-compiler/internal/project"
	"github.com/geeknik/aegis-c-compiler/internal/ui"
)

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]
	flags := cmd.Flags()

	if m, ok, err := project.Load(filepath.Dir(path)); err == nil && ok {
		applyManifestDefaults(flags, m.Config.Defaults)
	}

	emitFlag, _ := flags.GetString("emit")
	modeFlag, _ := flags.GetString("mode")
	strictInit, _ := flags.GetBool("strict-init")
	colorFlag, _ := flags.GetString("color")
	jobs, _ := flags.GetInt("jobs")
	maxDiags, _ := flags.GetInt("max-diagnostics")
	showProgress, _ := flags.GetBool("progress")
	format, _ := flags.GetString("format")
	noCache, _ := flags.GetBool("no-cache")

	emitTarget := driver.Emit(emitFlag)
	switch emitTarget {
	case driver.EmitAST, driver.EmitCore, driver.EmitIR:
	default:
		return fmt.Errorf("unsupported --emit %q (must be ast, core, or ir)", emitFlag)
	}

	mode := driver.Mode(modeFlag)
	switch mode {
	case driver.ModeSafe, driver.ModeCompat, driver.ModeUnsafe:
	default:
		return fmt.Errorf("unsupported --mode %q (must be safe, compat, or unsafe)", modeFlag)
	}

	opts := driver.Options{
		Emit:           emitTarget,
		Mode:           mode,
		StrictInit:     strictInit,
		Jobs:           jobs,
		MaxDiagnostics: maxDiags,
	}

	out := cmd.OutOrStdout()
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	var diskCache *cache.Disk
	if !noCache {
		if c, err := cache.OpenDefault("aegiscc"); err == nil {
			diskCache = c
		}
	}

	res, err := runWithOptionalProgress(cmd.Context(), path, opts, diskCache, showProgress && isTTY)
	if err != nil {
		return err
	}

	useColor := colorFlag == "on" || (colorFlag == "auto" && isTTY)
	switch strings.ToLower(format) {
	case "json":
		if err := renderJSON(out, res); err != nil {
			return err
		}
	default:
		diag.Pretty(out, res.Bag, res.FileSet, diag.PrettyOpts{Color: useColor, ShowNotes: true})
	}

	if !res.Bag.HasErrors() && len(res.Artifact) > 0 {
		fmt.Fprint(out, string(res.Artifact))
	}

	if code := res.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

// applyManifestDefaults seeds unset flags from an aegis.toml manifest's
// [defaults] table, mirroring how the CLI layers a project config
// underneath explicit flags.
func applyManifestDefaults(flags *pflag.FlagSet, d project.DefaultsConfig) {
	if d.Mode != "" && !flags.Changed("mode") {
		_ = flags.Set("mode", d.Mode)
	}
	if !flags.Changed("strict-init") && d.StrictInit {
		_ = flags.Set("strict-init", "true")
	}
	if d.MaxDiags > 0 && !flags.Changed("max-diagnostics") {
		_ = flags.Set("max-diagnostics", fmt.Sprint(d.MaxDiags))
	}
}

func runWithOptionalProgress(ctx context.Context, path string, opts driver.Options, diskCache *cache.Disk, showProgress bool) (*driver.Result, error) {
	if !showProgress {
		return driver.CompileFile(ctx, path, opts, diskCache)
	}

	events := make(chan driver.Phase, 8)
	opts.Progress = events
	model := ui.New(fmt.Sprintf("compiling %s", filepath.Base(path)), events)
	program := tea.NewProgram(model)

	type outcome struct {
		res *driver.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.CompileFile(ctx, path, opts, diskCache)
		close(events)
		done <- outcome{res, err}
	}()

	if _, err := program.Run(); err != nil {
		return nil, err
	}
	out := <-done
	return out.res, out.err
}

// jsonNote and jsonDiagnostic mirror diag.Note/diag.Diagnostic into a
// stable external shape for `--format json`, the
// same data the pretty-printer renders, carrying no new semantics.
type jsonNote struct {
	Message string `json:"message"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
}

type jsonDiagnostic struct {
	Code       string     `json:"code"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Line       uint32     `json:"line"`
	Col        uint32     `json:"col"`
	Notes      []jsonNote `json:"notes,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`
}

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	ExitCode    int              `json:"exit_code"`
}

func renderJSON(w io.Writer, res *driver.Result) error {
	report := jsonReport{ExitCode: res.ExitCode()}
	for _, d := range res.Bag.Items() {
		f := res.FileSet.Get(d.Primary.File)
		var line, col uint32
		if f != nil {
			pos := f.Position(d.Primary.Start)
			line, col = pos.Line, pos.Col
		}
		jd := jsonDiagnostic{
			Code:       d.Code.ID(),
			Severity:   d.Severity.String(),
			Message:    d.Message,
			Line:       line,
			Col:        col,
			Suggestion: d.Suggestion.String(),
		}
		for _, n := range d.Notes {
			nf := res.FileSet.Get(n.Span.File)
			var nline, ncol uint32
			if nf != nil {
				pos := nf.Position(n.Span.Start)
				nline, ncol = pos.Line, pos.Col
			}
			jd.Notes = append(jd.Notes, jsonNote{Message: n.Msg, Line: nline, Col: ncol})
		}
		report.Diagnostics = append(report.Diagnostics, jd)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
