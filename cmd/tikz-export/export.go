// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tikz-export/internal/export"
	"github.com/pdiddy/tikz-export/internal/manifest"
	"github.com/pdiddy/tikz-export/internal/toolchain"
	"github.com/pdiddy/tikz-export/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.tex]",
	Short: "Compile the selected tikzpictures and write one file per figure",
	Long: `Export filters the document down to the selected tikzpictures, compiles it
with pdflatex and TikZ externalization, and writes every figure to the
destination folder. EPS output uses pdftops, SVG output uses pdf2svg.

A figure named with an extension ("%%% plot.eps") keeps that format
regardless of --format.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindSelectionFlags,
	RunE:    runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := exportConfig(args)
	if err != nil {
		return err
	}

	runner, err := toolchain.New(cfg)
	if err != nil {
		return err
	}

	var store *manifest.Store
	if cfg.Manifest != "" {
		store, err = manifest.Open(cfg.Manifest)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	fmt.Fprintf(os.Stderr, "Using %s toolchain\n", runner.Name())
	summary, err := export.New(runner, store, os.Stdout).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d figure(s) failed to export", summary.Failed)
	}
	return nil
}

// exportConfig assembles the export settings from flags, config file and
// environment, in viper's precedence order.
func exportConfig(args []string) (types.ExportConfig, error) {
	input := viper.GetString("input")
	if len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return types.ExportConfig{}, fmt.Errorf("input file required: pass it as an argument or with --input")
	}

	format, err := types.ParseFormat(viper.GetString("format"))
	if err != nil {
		return types.ExportConfig{}, err
	}

	cfg := types.ExportConfig{
		Input:       input,
		Prefix:      viper.GetString("prefix"),
		Dest:        viper.GetString("dest"),
		Format:      format,
		Figures:     viper.GetIntSlice("figure"),
		Names:       viper.GetStringSlice("name"),
		Backend:     types.Backend(viper.GetString("backend")),
		Image:       viper.GetString("image"),
		KeepWorkDir: viper.GetBool("keep-work-dir"),
		Manifest:    viper.GetString("manifest"),
	}
	if cfg.Prefix == "" {
		cfg.Prefix = export.DefaultPrefix(input)
	}
	if err := cfg.Validate(); err != nil {
		return types.ExportConfig{}, fmt.Errorf("invalid export config: %w", err)
	}
	return cfg, nil
}

// bindSelectionFlags binds the flags of the running command to viper keys,
// so the same key can be bound by export and list without clashing.
func bindSelectionFlags(cmd *cobra.Command, args []string) error {
	return viper.BindPFlags(cmd.Flags())
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "input LaTeX file")
	cmd.Flags().IntSliceP("figure", "n", nil, "keep only figure N (0-based, repeatable)")
	cmd.Flags().StringSlice("name", nil, "keep only figures whose name matches this glob (repeatable)")
}

func init() {
	addSelectionFlags(exportCmd)
	exportCmd.Flags().StringP("prefix", "o", "", "file name prefix for unnamed figures (default <input>-figure)")
	exportCmd.Flags().StringP("dest", "d", ".", "destination folder")
	exportCmd.Flags().StringP("format", "f", "pdf", "default output format: pdf, eps, or svg")
	exportCmd.Flags().String("backend", string(types.BackendLocal), "toolchain backend: local or container")
	exportCmd.Flags().String("image", types.DefaultImage, "TeX Live image for the container backend")
	exportCmd.Flags().Bool("keep-work-dir", false, "keep the compilation directory for debugging")
	exportCmd.Flags().String("manifest", "", "record exports in this SQLite manifest")

	rootCmd.AddCommand(exportCmd)
}
