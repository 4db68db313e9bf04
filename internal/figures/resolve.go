// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figures

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/tikz-export/pkg/types"
)

// ErrInconsistent means the compiler produced artifacts that do not line up
// with the blocks the filter emitted.
var ErrInconsistent = errors.New("artifacts do not match filtered figures")

// Resolve picks the output stem and extension of every artifact. The
// artifact at position i must have Index i and is named by names[i]: a
// named figure keeps its name, and an extension in the name overrides
// defaultFormat. Unnamed figures become prefix+i with defaultFormat.
// Nothing is returned when the artifacts and names disagree.
func Resolve(artifacts []types.Artifact, names []string, defaultFormat types.Format, prefix string) ([]types.ResolvedOutput, error) {
	if len(names) < len(artifacts) {
		return nil, fmt.Errorf("%w: %d artifacts but only %d figure names", ErrInconsistent, len(artifacts), len(names))
	}

	out := make([]types.ResolvedOutput, len(artifacts))
	for i, a := range artifacts {
		if a.Index != i {
			return nil, fmt.Errorf("%w: artifact %s has index %d, want %d", ErrInconsistent, a.Path, a.Index, i)
		}
		out[i] = resolveOne(i, names[i], defaultFormat, prefix)
	}
	return out, nil
}

func resolveOne(i int, name string, defaultFormat types.Format, prefix string) types.ResolvedOutput {
	if name == "" {
		return types.ResolvedOutput{Stem: prefix + strconv.Itoa(i), Ext: string(defaultFormat)}
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" || strings.HasSuffix(stem, "/") {
		// dotfile: the leading dot is part of the stem
		stem, ext = name, ""
	}
	if ext == "" {
		ext = string(defaultFormat)
	}
	return types.ResolvedOutput{Stem: stem, Ext: ext}
}
