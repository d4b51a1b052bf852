package commands

import (
	"leaders-scraper/internal/components/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Lists the countries known to the leaders api.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp(flags)

		err := a.scraper.Setup(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to acquire a token", err)
		}
		countries, err := a.scraper.Countries(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch countries", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Country"})
		for _, c := range countries {
			t.AppendRow(table.Row{c})
		}
		t.Render()
	},
}
