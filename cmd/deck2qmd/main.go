// Package main provides the CLI entry point for deck2qmd.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukaji3/deck2qmd/pkg/deck2qmd"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/output"
	"github.com/ukaji3/deck2qmd/pkg/deck2qmd/render"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "deck2qmd [input.pptx...]",
	Short: "Convert PowerPoint decks to Quarto reveal.js documents",
	Long: `deck2qmd converts .pptx presentations into Quarto reveal.js sources.
Text boxes become titles and bullet lists, pictures are written to images/,
tables and chart data to Data/ as CSV, and charts are re-plotted with plotly.

A per-slide report lists the shapes that could not be converted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deck2qmd.yaml or ~/.config/deck2qmd/deck2qmd.yaml)")

	flags := rootCmd.Flags()
	flags.StringP("out-dir", "o", ".", "output directory for the .qmd file, images/ and Data/")
	flags.String("name", "", "output name (default: input file name); single input only")
	flags.String("theme", deck2qmd.DefaultTheme, "reveal.js theme")
	flags.Int("max-image-dim", render.DefaultMaxImageDim, "maximum image width or height in pixels")
	flags.String("shape-codes", "", "YAML file overriding the shape type table")
	flags.String("chart-codes", "", "YAML file overriding the chart type table")
	flags.String("report", "", "write the report to a .json, .yaml, .yml or .csv file (default: table on stdout)")
	flags.Bool("trouble-shoot", false, "print per-slide progress and shape errors")

	for key, flag := range map[string]string{
		"out_dir":       "out-dir",
		"name":          "name",
		"theme":         "theme",
		"max_image_dim": "max-image-dim",
		"shape_codes":   "shape-codes",
		"chart_codes":   "chart-codes",
		"report":        "report",
		"trouble_shoot": "trouble-shoot",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deck2qmd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deck2qmd"))
		}
	}

	viper.SetEnvPrefix("DECK2QMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts := deck2qmd.DefaultOptions()
	if err := viper.Unmarshal(&opts); err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if opts.OutputName != "" && len(args) > 1 {
		return errors.New("--name can only be used with a single input")
	}
	opts.Progress = cmd.ErrOrStderr()

	result := deck2qmd.ConvertBatch(args, opts, cmd.ErrOrStderr())

	reportPath := viper.GetString("report")
	for _, deck := range result.Decks {
		if reportPath == "" {
			if len(result.Decks) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", deck.Name)
			}
			if err := output.WriteTable(cmd.OutOrStdout(), &deck.Report); err != nil {
				return fmt.Errorf("failed to print report: %w", err)
			}
			continue
		}
		path := reportPathFor(reportPath, deck.Name, len(args) > 1)
		if err := output.WriteFile(&deck.Report, path); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d decks failed", result.Failed, result.Total())
	}
	return nil
}

// reportPathFor inserts the deck name before the extension when several
// decks share one --report path.
func reportPathFor(path, deckName string, batch bool) string {
	if !batch {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + deckName + ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
