package export

import (
	"encoding/json"
	"io"

	"leaders-scraper/internal/model"
)

// WriteJSON writes the dataset as an object of country -> leaders, indented
// by two spaces. Non-ascii and html characters are written as is.
func WriteJSON(w io.Writer, dataset model.Dataset) error {
	if dataset == nil {
		dataset = model.Dataset{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(dataset)
}
