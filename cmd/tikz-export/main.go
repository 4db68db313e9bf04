// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tikz-export CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the tikz-export CLI.
var rootCmd = &cobra.Command{
	Use:   "tikz-export",
	Short: "Export tikzpicture figures from a LaTeX document to pdf, eps, or svg",
	Long: `tikz-export compiles every tikzpicture of a LaTeX document into its own
file. Figures can be selected by index or by name, and each figure can be
named by a "%%% name" line right before its \begin{tikzpicture}:

  %%% circuit.svg
  \begin{tikzpicture}
  ...
  \end{tikzpicture}

Unnamed figures are written as <prefix><N>.<format>.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tikz-export.yaml or ~/.config/tikz-export/tikz-export.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tikz-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tikz-export"))
		}
	}

	viper.SetEnvPrefix("TIKZ_EXPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	registerConfigAliases()
}

// registerConfigAliases maps the ExportConfig yaml keys onto the flag names
// the commands read. Viper moves values already loaded under an alias, so
// this runs after ReadInConfig.
func registerConfigAliases() {
	viper.RegisterAlias("figures", "figure")
	viper.RegisterAlias("names", "name")
	viper.RegisterAlias("keep_work_dir", "keep-work-dir")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
