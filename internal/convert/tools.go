// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/tikz-export/internal/toolchain"
	"github.com/pdiddy/tikz-export/pkg/types"
)

// ToolConverter converts a PDF by running a command line tool through a
// toolchain.Runner. The tool is invoked as: tool args... <pdf> <out>.
type ToolConverter struct {
	runner toolchain.Runner
	tool   string
	args   []string
}

// NewToolConverter returns a converter that runs tool with the given leading args.
func NewToolConverter(r toolchain.Runner, tool string, args ...string) *ToolConverter {
	return &ToolConverter{runner: r, tool: tool, args: args}
}

// Convert runs the tool in workDir and checks that it wrote out.
func (t *ToolConverter) Convert(ctx context.Context, workDir, pdf, out string) error {
	args := make([]string, 0, len(t.args)+2)
	args = append(args, t.args...)
	args = append(args, pdf, out)

	if err := t.runner.Run(ctx, workDir, t.tool, args...); err != nil {
		return fmt.Errorf("converting %s with %s: %w", pdf, t.tool, err)
	}

	info, err := os.Stat(filepath.Join(workDir, out))
	if err != nil {
		return fmt.Errorf("%s produced no output for %s: %w", t.tool, pdf, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s produced empty output for %s", t.tool, pdf)
	}
	return nil
}

// DefaultSet wires pdftops for EPS and pdf2svg for SVG output.
func DefaultSet(r toolchain.Runner) *Set {
	return NewSet(map[string]Converter{
		string(types.FormatEPS): NewToolConverter(r, "pdftops", "-eps"),
		string(types.FormatSVG): NewToolConverter(r, "pdf2svg"),
	})
}
