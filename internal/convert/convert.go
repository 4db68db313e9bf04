// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns the per-figure PDFs produced by the compiler into
// the requested output format and moves them to their destination.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/tikz-export/pkg/types"
)

// ErrUnsupportedFormat is returned for an output extension no converter handles.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ErrOutsideDest is returned when a figure name resolves to a path outside
// the destination folder.
var ErrOutsideDest = errors.New("output path outside destination")

// Converter transforms a PDF into another format. Both names are relative
// to workDir.
type Converter interface {
	Convert(ctx context.Context, workDir, pdf, out string) error
}

// Job is one figure to export.
type Job struct {
	Artifact types.Artifact
	Output   types.ResolvedOutput
	// Name is the figure name from the document, empty when unnamed.
	Name string
}

// BatchResult holds the outcome of a batch export run.
type BatchResult struct {
	Exported int
	Failed   int
	Records  []types.ExportRecord
}

// Total returns the total number of figures processed.
func (r BatchResult) Total() int {
	return r.Exported + r.Failed
}

// HasFailures reports whether any figure failed to export.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Set maps output extensions to converters. PDF output needs no converter:
// the compiled figure is moved into place.
type Set struct {
	converters map[string]Converter
}

// NewSet returns a Set with the given converters keyed by extension
// (".eps", ".svg").
func NewSet(converters map[string]Converter) *Set {
	m := make(map[string]Converter, len(converters))
	for ext, c := range converters {
		m[strings.ToLower(ext)] = c
	}
	return &Set{converters: m}
}

// For returns the converter for ext, or nil for PDF output.
func (s *Set) For(ext string) (Converter, error) {
	ext = strings.ToLower(ext)
	if ext == string(types.FormatPDF) {
		return nil, nil
	}
	c, ok := s.converters[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}

// ExportFigure converts one compiled figure and writes it to
// dest/stem+ext, replacing any existing file. It returns the destination path.
func ExportFigure(ctx context.Context, s *Set, job Job, dest string) (string, error) {
	dstPath := filepath.Join(dest, job.Output.Filename())
	if rel, err := filepath.Rel(dest, dstPath); err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dstPath, fmt.Errorf("%s: %w", job.Output.Filename(), ErrOutsideDest)
	}

	conv, err := s.For(job.Output.Ext)
	if err != nil {
		return dstPath, err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return dstPath, fmt.Errorf("creating %s: %w", filepath.Dir(dstPath), err)
	}

	src := job.Artifact.Path
	if conv != nil {
		workDir := filepath.Dir(src)
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		outName := base + "-out" + strings.ToLower(job.Output.Ext)
		if err := conv.Convert(ctx, workDir, filepath.Base(src), outName); err != nil {
			return dstPath, err
		}
		src = filepath.Join(workDir, outName)
	}

	if err := moveFile(src, dstPath); err != nil {
		return dstPath, err
	}
	return dstPath, nil
}

// ExportBatch exports jobs in order, printing per-figure status to w and
// returning a summary. A failed figure does not stop the batch.
func ExportBatch(ctx context.Context, s *Set, jobs []Job, dest string, w io.Writer) BatchResult {
	var result BatchResult
	for _, job := range jobs {
		rec := types.ExportRecord{
			Index:  job.Artifact.Index,
			Name:   job.Name,
			Format: strings.TrimPrefix(strings.ToLower(job.Output.Ext), "."),
		}

		path, err := ExportFigure(ctx, s, job, dest)
		rec.Output = path
		if err != nil {
			fmt.Fprintf(w, "failed:   %s (%v)\n", job.Output.Filename(), err)
			rec.Status = types.ExportFailed
			rec.Error = err.Error()
			result.Failed++
		} else {
			fmt.Fprintf(w, "exported: %s\n", path)
			rec.Status = types.ExportDone
			result.Exported++
		}
		result.Records = append(result.Records, rec)

		if ctx.Err() != nil {
			break
		}
	}
	fmt.Fprintf(w, "\nExport summary: %d exported, %d failed (total: %d)\n",
		result.Exported, result.Failed, result.Total())
	return result
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return os.Remove(src)
}
