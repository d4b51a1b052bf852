package commands

import (
	"context"
	"fmt"
	"os"

	"leaders-scraper/internal/components/telemetry"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	parallel  bool
	format    string
	output    string
	config    string
	countries []string
	dumpHttp  string
	verbose   bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "leaders-scraper",
	Short: "leaders-scraper downloads country leaders and summarizes them from wikipedia.",
	Long: `leaders-scraper fetches every country and its leaders from the leaders api,
attaches the first paragraph of each leader's wikipedia page and saves the
result as json, csv or a sqlite database.

Without --parallel or --format the missing choices are asked interactively.`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flags.verbose {
			telemetry.InitSlog(true)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runScrape(cmd, flags)
	},
}

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&flags.parallel, "parallel", false, "Fetch wikipedia pages on a worker pool (skips the prompt).")
	f.StringVar(&flags.format, "format", "", "Output format: json, csv or sqlite (skips the prompt).")
	f.StringVarP(&flags.output, "output", "o", "", "Output path, the format's extension is added when missing (default from config).")
	f.StringArrayVar(&flags.countries, "country", nil, "Only scrape this country, can be repeated.")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "leaders-scraper.json5", "Path to the config file.")
	pf.StringVar(&flags.dumpHttp, "dump-http", "", "Write every http request/response pair to this directory.")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Show debug logs.")

	rootCmd.AddCommand(countriesCmd)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
