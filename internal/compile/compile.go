// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile runs pdflatex on a filtered document with TikZ
// externalization enabled and collects the per-figure PDFs it produces.
package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/tikz-export/internal/toolchain"
	"github.com/pdiddy/tikz-export/pkg/types"
)

const (
	// JobName is the pdflatex job name; externalized figures are written
	// as <JobName>-figure<N>.pdf.
	JobName = "temp"

	sourceFile     = JobName + ".tex"
	artifactPrefix = JobName + "-figure"
	artifactExt    = ".pdf"
)

// ErrNoArtifacts is returned when pdflatex produced no figure PDFs.
var ErrNoArtifacts = errors.New("compiler produced no figures")

// Compiler turns a filtered document into per-figure PDFs.
type Compiler struct {
	runner toolchain.Runner
}

// New returns a Compiler that invokes pdflatex through r.
func New(r toolchain.Runner) *Compiler {
	return &Compiler{runner: r}
}

// Compile writes doc to workDir and runs pdflatex there. A failing pdflatex
// run is only fatal when no figures were produced; otherwise the failure is
// reported to w and the produced figures are returned.
func (c *Compiler) Compile(ctx context.Context, workDir, doc string, w io.Writer) ([]types.Artifact, error) {
	src := filepath.Join(workDir, sourceFile)
	if err := os.WriteFile(src, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", src, err)
	}

	runErr := c.runner.Run(ctx, workDir, "pdflatex",
		"--shell-escape", "-halt-on-error", "-interaction=batchmode", sourceFile)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	artifacts, err := Collect(workDir)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoArtifacts, runErr)
		}
		return nil, ErrNoArtifacts
	}
	if runErr != nil {
		fmt.Fprintf(w, "warning: pdflatex reported errors, continuing with %d figure(s): %v\n", len(artifacts), runErr)
	}
	return artifacts, nil
}

// Collect lists the figure PDFs in dir ordered by their index.
func Collect(dir string) ([]types.Artifact, error) {
	matches, err := filepath.Glob(filepath.Join(dir, artifactPrefix+"*"+artifactExt))
	if err != nil {
		return nil, fmt.Errorf("listing figures in %s: %w", dir, err)
	}

	artifacts := make([]types.Artifact, 0, len(matches))
	for _, m := range matches {
		idx, ok := artifactIndex(filepath.Base(m))
		if !ok {
			continue
		}
		artifacts = append(artifacts, types.Artifact{Index: idx, Path: m})
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Index < artifacts[j].Index
	})
	return artifacts, nil
}

// artifactIndex parses N out of "temp-figureN.pdf".
func artifactIndex(base string) (int, bool) {
	s := strings.TrimSuffix(strings.TrimPrefix(base, artifactPrefix), artifactExt)
	if s == "" || s == base {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
