// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tikz-export/internal/export"
	"github.com/pdiddy/tikz-export/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list [file.tex]",
	Short: "List the tikzpictures of a document and whether the selection keeps them",
	Long: `List scans the document the same way export does and prints every
tikzpicture with its index and name, without running pdflatex. Use it to
check --figure and --name selections before exporting.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindSelectionFlags,
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	input := viper.GetString("input")
	if len(args) > 0 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("input file required: pass it as an argument or with --input")
	}

	cfg := types.ExportConfig{
		Input:   input,
		Figures: viper.GetIntSlice("figure"),
		Names:   viper.GetStringSlice("name"),
	}
	plan, err := export.Plan(cfg)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatBlocks(plan.Blocks, jsonOutput)
}

func formatBlocks(blocks []types.Block, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	}

	if len(blocks) == 0 {
		fmt.Println("No tikzpictures found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-8s  %s\n", "Index", "Selected", "Name")
	kept := 0
	for _, b := range blocks {
		mark := "no"
		if b.Included {
			mark = "yes"
			kept++
		}
		name := b.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-8s  %s\n", b.Index, mark, name)
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d figures selected\n", kept, len(blocks))
	return nil
}

func init() {
	addSelectionFlags(listCmd)
	listCmd.Flags().Bool("json", false, "output figures as JSON")

	rootCmd.AddCommand(listCmd)
}
