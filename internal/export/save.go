package export

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"leaders-scraper/internal/model"
)

// Format is an output file format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

var Formats = []Format{FormatJSON, FormatCSV, FormatSQLite}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format '%s'", s)
}

// Extension is the file extension conventionally used for the format.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// Path appends the format's extension to `base` unless it already has one.
func (f Format) Path(base string) string {
	suffix := "." + f.Extension()
	if strings.HasSuffix(base, suffix) {
		return base
	}
	return base + suffix
}

// Save writes the dataset to `path` in the given format. For sqlite, the
// run is appended to whatever the database already holds.
func Save(ctx context.Context, format Format, path string, startedAt time.Time, dataset model.Dataset) error {
	switch format {
	case FormatJSON, FormatCSV:
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if format == FormatJSON {
			err = WriteJSON(file, dataset)
		} else {
			err = WriteCSV(file, dataset)
		}
		if err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		return file.Close()
	case FormatSQLite:
		db, err := OpenDB(path)
		if err != nil {
			return err
		}
		defer db.Close()

		runId, err := NewRunId()
		if err != nil {
			return err
		}
		return WriteSQLite(ctx, db, runId, startedAt, dataset)
	}
	return fmt.Errorf("unknown output format '%s'", format)
}
