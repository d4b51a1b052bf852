package export

import (
	"encoding/csv"
	"io"

	"leaders-scraper/internal/model"
)

var csvHeader = []string{
	"country",
	"id",
	"first_name",
	"last_name",
	"birth_year",
	"wikipedia_url",
	"summary",
}

// WriteCSV writes one row per leader, countries in sorted order and leaders
// in dataset order. Missing values are empty strings.
func WriteCSV(w io.Writer, dataset model.Dataset) error {
	writer := csv.NewWriter(w)
	err := writer.Write(csvHeader)
	if err != nil {
		return err
	}

	for _, country := range dataset.Countries() {
		for _, leader := range dataset[country] {
			err = writer.Write([]string{
				country,
				leader.ID.String(),
				leader.FirstName,
				leader.LastName,
				leader.BirthYear.String(),
				leader.WikipediaUrl,
				leader.SummaryText(),
			})
			if err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
