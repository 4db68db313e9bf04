// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tikz-export/internal/manifest"
	"github.com/pdiddy/tikz-export/pkg/types"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the export manifest (list, export)",
	Long: `Manifest reads the SQLite history written by "export --manifest". Every
exported figure is recorded with its run ID, source document, figure
index, name, output path and status.`,
}

// --- list subcommand ---

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent exports, newest first",
	RunE:  runManifestList,
}

func runManifestList(cmd *cobra.Command, args []string) error {
	store, err := openManifest(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(cmd.Context(), manifestQuery(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No exports recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-5s  %-20s  %s\n", "Exported", "Status", "Index", "Name", "Output")
	for _, r := range records {
		name := r.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-8s  %-5d  %-20s  %s\n",
			r.ExportedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Index, name, r.Output)
	}
	fmt.Fprintf(os.Stdout, "\n%d records\n", len(records))
	return nil
}

// --- export subcommand ---

var manifestExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the manifest as YAML or JSON",
	RunE:  runManifestExport,
}

func runManifestExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, err := openManifest(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	w := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	ctx := cmd.Context()
	opts := manifestQuery(cmd)

	switch format {
	case "yaml", "":
		return store.ExportYAML(ctx, opts, w)
	case "json":
		return store.ExportJSON(ctx, opts, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

func openManifest(cmd *cobra.Command) (*manifest.Store, error) {
	path, _ := cmd.Flags().GetString("manifest")
	if path == "" {
		return nil, fmt.Errorf("--manifest is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return manifest.Open(path)
}

func manifestQuery(cmd *cobra.Command) manifest.QueryOptions {
	source, _ := cmd.Flags().GetString("source")
	runID, _ := cmd.Flags().GetString("run")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	return manifest.QueryOptions{
		Source: source,
		RunID:  runID,
		Status: types.ExportStatus(status),
		Limit:  limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	manifestCmd.PersistentFlags().String("manifest", "", "path of the SQLite manifest")
	manifestCmd.PersistentFlags().String("source", "", "filter by source document")
	manifestCmd.PersistentFlags().String("run", "", "filter by run ID")
	manifestCmd.PersistentFlags().String("status", "", "filter by status: exported or failed")

	manifestListCmd.Flags().Int("limit", 0, "maximum records (0 = default)")
	manifestListCmd.Flags().Bool("json", false, "output records as JSON")

	manifestExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	manifestExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestExportCmd)

	rootCmd.AddCommand(manifestCmd)
}
