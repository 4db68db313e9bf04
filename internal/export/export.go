// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs a complete export: filter the document, compile the
// kept figures, resolve their output names and convert them into place.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/tikz-export/internal/compile"
	"github.com/pdiddy/tikz-export/internal/convert"
	"github.com/pdiddy/tikz-export/internal/figures"
	"github.com/pdiddy/tikz-export/internal/manifest"
	"github.com/pdiddy/tikz-export/internal/toolchain"
	"github.com/pdiddy/tikz-export/pkg/types"
)

// DefaultPrefix returns "<input base>-figure" for unnamed figures.
func DefaultPrefix(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-figure"
}

// Selection builds the figure selection from cfg.
func Selection(cfg types.ExportConfig) figures.Selection {
	return figures.Selection{Indices: cfg.Figures, Patterns: cfg.Names}
}

// Plan reads cfg.Input and filters it without compiling anything.
func Plan(cfg types.ExportConfig) (figures.Result, error) {
	pred, err := Selection(cfg).Predicate()
	if err != nil {
		return figures.Result{}, err
	}
	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return figures.Result{}, fmt.Errorf("reading %s: %w", cfg.Input, err)
	}
	return figures.Filter(figures.SplitLines(string(data)), pred), nil
}

// Summary is the outcome of Run.
type Summary struct {
	RunID  string
	Blocks []types.Block
	convert.BatchResult
}

// Exporter runs exports with a fixed toolchain.
type Exporter struct {
	compiler   *compile.Compiler
	converters *convert.Set
	manifest   *manifest.Store
	w          io.Writer
}

// New returns an Exporter that runs every tool through r and writes status
// lines to w. m may be nil to skip recording.
func New(r toolchain.Runner, m *manifest.Store, w io.Writer) *Exporter {
	return &Exporter{
		compiler:   compile.New(r),
		converters: convert.DefaultSet(r),
		manifest:   m,
		w:          w,
	}
}

// Run exports the figures of cfg.Input selected by cfg. Invalid config, an
// unreadable input, a failed compile or an artifact/name mismatch stop the
// run with an error before any file reaches cfg.Dest. Per-figure conversion
// failures are counted in the summary instead.
func (e *Exporter) Run(ctx context.Context, cfg types.ExportConfig) (Summary, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix(cfg.Input)
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid export config: %w", err)
	}

	plan, err := Plan(cfg)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Blocks: plan.Blocks}

	if !plan.Terminated {
		fmt.Fprintf(e.w, "warning: %s has no \\end{document}, using the whole file\n", cfg.Input)
	}
	if len(plan.Names) == 0 {
		fmt.Fprintf(e.w, "no figures selected (%d found in %s)\n", len(plan.Blocks), cfg.Input)
		return summary, nil
	}

	workDir, err := os.MkdirTemp("", "tikz-export-*")
	if err != nil {
		return summary, fmt.Errorf("creating work directory: %w", err)
	}
	if cfg.KeepWorkDir {
		fmt.Fprintf(e.w, "work directory: %s\n", workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	artifacts, err := e.compiler.Compile(ctx, workDir, plan.Text(), e.w)
	if err != nil {
		return summary, fmt.Errorf("compiling %s: %w", cfg.Input, err)
	}
	if len(artifacts) < len(plan.Names) {
		fmt.Fprintf(e.w, "warning: %d figure(s) selected but only %d compiled\n", len(plan.Names), len(artifacts))
	}

	outputs, err := figures.Resolve(artifacts, plan.Names, cfg.Format, cfg.Prefix)
	if err != nil {
		return summary, err
	}

	jobs := make([]convert.Job, len(artifacts))
	for i := range artifacts {
		jobs[i] = convert.Job{Artifact: artifacts[i], Output: outputs[i], Name: plan.Names[i]}
	}
	summary.BatchResult = convert.ExportBatch(ctx, e.converters, jobs, cfg.Dest, e.w)

	if e.manifest != nil {
		summary.RunID = manifest.NewRunID()
		if err := e.manifest.Record(ctx, summary.RunID, cfg.Input, summary.Records); err != nil {
			return summary, fmt.Errorf("recording manifest: %w", err)
		}
	}
	return summary, nil
}
