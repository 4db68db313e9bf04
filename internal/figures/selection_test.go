// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionPredicate(t *testing.T) {
	names := []string{"alpha", "mypic", "other"}

	tests := []struct {
		name string
		sel  Selection
		want []bool
	}{
		{
			name: "empty selection keeps all",
			sel:  Selection{},
			want: []bool{true, true, true},
		},
		{
			name: "name pattern",
			sel:  Selection{Patterns: []string{"my*"}},
			want: []bool{false, true, false},
		},
		{
			name: "any pattern matches",
			sel:  Selection{Patterns: []string{"my*", "al?ha"}},
			want: []bool{true, true, false},
		},
		{
			name: "index whitelist",
			sel:  Selection{Indices: []int{0, 2}},
			want: []bool{true, false, true},
		},
		{
			name: "index and pattern must both match",
			sel:  Selection{Indices: []int{0, 1}, Patterns: []string{"*e*"}},
			want: []bool{false, false, false},
		},
		{
			name: "index and pattern intersect",
			sel:  Selection{Indices: []int{2}, Patterns: []string{"o*"}},
			want: []bool{false, false, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := tt.sel.Predicate()
			require.NoError(t, err)
			for i, n := range names {
				assert.Equal(t, tt.want[i], pred(i, n), "index %d name %q", i, n)
			}
		})
	}
}

func TestSelectionPredicate_EmptyName(t *testing.T) {
	pred, err := Selection{Patterns: []string{"fig*"}}.Predicate()
	require.NoError(t, err)
	assert.False(t, pred(0, ""))

	pred, err = Selection{Patterns: []string{"*"}}.Predicate()
	require.NoError(t, err)
	assert.True(t, pred(0, ""))
}

func TestSelectionPredicate_InvalidPattern(t *testing.T) {
	_, err := Selection{Patterns: []string{"[unclosed"}}.Predicate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestSelectionIsEmpty(t *testing.T) {
	assert.True(t, Selection{}.IsEmpty())
	assert.False(t, Selection{Indices: []int{0}}.IsEmpty())
	assert.False(t, Selection{Patterns: []string{"a"}}.IsEmpty())
}
