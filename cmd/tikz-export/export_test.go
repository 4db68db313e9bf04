// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tikz-export/pkg/types"
)

func setViper(t *testing.T, kv map[string]any) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for k, v := range kv {
		viper.Set(k, v)
	}
}

func TestExportConfig(t *testing.T) {
	setViper(t, map[string]any{
		"format":  "SVG",
		"dest":    "out",
		"backend": "local",
		"figure":  []int{1, 2},
		"name":    []string{"my*"},
	})

	cfg, err := exportConfig([]string{"docs/paper.tex"})
	require.NoError(t, err)
	assert.Equal(t, "docs/paper.tex", cfg.Input)
	assert.Equal(t, "paper-figure", cfg.Prefix)
	assert.Equal(t, types.FormatSVG, cfg.Format)
	assert.Equal(t, []int{1, 2}, cfg.Figures)
	assert.Equal(t, []string{"my*"}, cfg.Names)
}

func TestExportConfig_InputFromFlag(t *testing.T) {
	setViper(t, map[string]any{
		"input": "a.tex", "format": "pdf", "dest": ".", "backend": "local", "prefix": "fig-",
	})

	cfg, err := exportConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "a.tex", cfg.Input)
	assert.Equal(t, "fig-", cfg.Prefix)
}

func TestExportConfig_ConfigFileKeys(t *testing.T) {
	setViper(t, map[string]any{"format": "pdf", "dest": ".", "backend": "local"})

	cfgFile := filepath.Join(t.TempDir(), "tikz-export.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`figures: [0, 2]
names: ["circuit*"]
keep_work_dir: true
`), 0o644))
	viper.SetConfigFile(cfgFile)
	require.NoError(t, viper.ReadInConfig())
	registerConfigAliases()

	cfg, err := exportConfig([]string{"a.tex"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, cfg.Figures)
	assert.Equal(t, []string{"circuit*"}, cfg.Names)
	assert.True(t, cfg.KeepWorkDir)
}

func TestExportConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		kv      map[string]any
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown format",
			kv:      map[string]any{"format": "png", "dest": ".", "backend": "local"},
			args:    []string{"a.tex"},
			wantErr: types.ErrUnknownFormat,
		},
		{
			name:    "missing input",
			kv:      map[string]any{"format": "pdf", "dest": ".", "backend": "local"},
			wantMsg: "input file required",
		},
		{
			name:    "negative figure",
			kv:      map[string]any{"format": "pdf", "dest": ".", "backend": "local", "figure": []int{-1}},
			args:    []string{"a.tex"},
			wantMsg: "invalid export config",
		},
		{
			name:    "unknown backend",
			kv:      map[string]any{"format": "pdf", "dest": ".", "backend": "cloud"},
			args:    []string{"a.tex"},
			wantMsg: "invalid export config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setViper(t, tt.kv)
			_, err := exportConfig(tt.args)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
