// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figures

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tikz-export/pkg/types"
)

func artifacts(n int) []types.Artifact {
	out := make([]types.Artifact, n)
	for i := range out {
		out[i] = types.Artifact{Index: i, Path: fmt.Sprintf("temp-figure%d.pdf", i)}
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		format types.Format
		prefix string
		want   []types.ResolvedOutput
	}{
		{
			name:   "explicit extension overrides default",
			names:  []string{"foo.png"},
			format: types.FormatEPS,
			want:   []types.ResolvedOutput{{Stem: "foo", Ext: ".png"}},
		},
		{
			name:   "name without extension takes default",
			names:  []string{"foo"},
			format: types.FormatEPS,
			want:   []types.ResolvedOutput{{Stem: "foo", Ext: ".eps"}},
		},
		{
			name:   "unnamed figure uses prefix and position",
			names:  []string{"a", "b", ""},
			format: types.FormatPDF,
			prefix: "fig-",
			want: []types.ResolvedOutput{
				{Stem: "a", Ext: ".pdf"},
				{Stem: "b", Ext: ".pdf"},
				{Stem: "fig-2", Ext: ".pdf"},
			},
		},
		{
			name:   "only the last extension is split",
			names:  []string{"plot.v2.svg"},
			format: types.FormatPDF,
			want:   []types.ResolvedOutput{{Stem: "plot.v2", Ext: ".svg"}},
		},
		{
			name:   "dot in directory is not an extension",
			names:  []string{"out.d/plot"},
			format: types.FormatSVG,
			want:   []types.ResolvedOutput{{Stem: "out.d/plot", Ext: ".svg"}},
		},
		{
			name:   "dotfile keeps its name as stem",
			names:  []string{".hidden"},
			format: types.FormatSVG,
			want:   []types.ResolvedOutput{{Stem: ".hidden", Ext: ".svg"}},
		},
		{
			name:   "extra names are ignored",
			names:  []string{"", "unused"},
			format: types.FormatSVG,
			prefix: "x",
			want:   []types.ResolvedOutput{{Stem: "x0", Ext: ".svg"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(tt.want)
			got, err := Resolve(artifacts(n), tt.names, tt.format, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	got, err := Resolve(nil, nil, types.FormatPDF, "p")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_Inconsistent(t *testing.T) {
	tests := []struct {
		name      string
		artifacts []types.Artifact
		names     []string
	}{
		{
			name:      "fewer names than artifacts",
			artifacts: artifacts(3),
			names:     []string{"a", "b"},
		},
		{
			name:      "index gap",
			artifacts: []types.Artifact{{Index: 0}, {Index: 2}},
			names:     []string{"a", "b", "c"},
		},
		{
			name:      "not starting at zero",
			artifacts: []types.Artifact{{Index: 1}},
			names:     []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.artifacts, tt.names, types.FormatPDF, "p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInconsistent))
			assert.Nil(t, got)
		})
	}
}
