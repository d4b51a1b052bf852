package export

import (
	"io"

	"leaders-scraper/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSummary prints how many leaders each country has and how many of
// them got a summary.
func RenderSummary(w io.Writer, dataset model.Dataset) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Country", "Leaders", "Summarized", "Without summary"})

	totalLeaders, totalSummarized := 0, 0
	for _, country := range dataset.Countries() {
		leaders := dataset[country]
		summarized := 0
		for _, l := range leaders {
			if l.Summary != nil {
				summarized++
			}
		}
		totalLeaders += len(leaders)
		totalSummarized += summarized
		t.AppendRow(table.Row{country, len(leaders), summarized, len(leaders) - summarized})
	}
	t.AppendFooter(table.Row{"Total", totalLeaders, totalSummarized, totalLeaders - totalSummarized})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
