// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain runs the external TeX and PDF conversion tools either on
// the host or inside a container. Every tool runs with the work directory as
// its current directory and only receives paths relative to it, so the same
// arguments work in both backends.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pdiddy/tikz-export/internal/container"
	"github.com/pdiddy/tikz-export/pkg/types"
)

// outputTail is how many bytes of tool output are kept in error messages.
const outputTail = 2048

// Runner executes a tool inside a work directory.
type Runner interface {
	// Name identifies the backend in status output.
	Name() string

	// Run executes tool with args in dir and returns an error that includes
	// the tail of the tool output when it fails.
	Run(ctx context.Context, dir, tool string, args ...string) error
}

// commander abstracts os/exec for testing.
type commander interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir, name string, args []string, out io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Run(ctx context.Context, dir, name string, args []string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// Local runs tools on the host.
type Local struct {
	cmd commander
}

// NewLocal returns a Runner backed by binaries on PATH.
func NewLocal() *Local {
	return &Local{cmd: osCommander{}}
}

func (l *Local) Name() string { return string(types.BackendLocal) }

func (l *Local) Run(ctx context.Context, dir, tool string, args ...string) error {
	if _, err := l.cmd.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", tool, err)
	}
	var out bytes.Buffer
	if err := l.cmd.Run(ctx, dir, tool, args, &out); err != nil {
		return toolError(tool, err, out.Bytes())
	}
	return nil
}

// Container runs tools inside image through a container runtime.
type Container struct {
	rt    container.Runtime
	image string
}

// NewContainer verifies that image exists in rt before returning.
func NewContainer(rt container.Runtime, image string) (*Container, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("TeX image not available in %s: %w", rt.Name(), err)
	}
	return &Container{rt: rt, image: image}, nil
}

func (c *Container) Name() string {
	return fmt.Sprintf("%s (%s %s)", types.BackendContainer, c.rt.Name(), c.image)
}

func (c *Container) Run(ctx context.Context, dir, tool string, args ...string) error {
	full := append([]string{tool}, args...)
	var out bytes.Buffer
	if err := c.rt.Run(ctx, c.image, dir, full, &out); err != nil {
		return toolError(tool, err, out.Bytes())
	}
	return nil
}

// New builds the Runner for cfg.Backend, detecting docker or podman for the
// container backend.
func New(cfg types.ExportConfig) (Runner, error) {
	switch cfg.Backend {
	case types.BackendLocal, "":
		return NewLocal(), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		image := cfg.Image
		if image == "" {
			image = types.DefaultImage
		}
		return NewContainer(rt, image)
	default:
		return nil, fmt.Errorf("unsupported backend %q: use local or container", cfg.Backend)
	}
}

func toolError(tool string, err error, output []byte) error {
	tail := strings.TrimSpace(string(output))
	if len(tail) > outputTail {
		tail = "..." + tail[len(tail)-outputTail:]
	}
	if tail == "" {
		return fmt.Errorf("running %s: %w", tool, err)
	}
	return fmt.Errorf("running %s: %w\n%s", tool, err, tail)
}
