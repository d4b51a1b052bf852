package commands

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"leaders-scraper/internal/export"
	"leaders-scraper/internal/scraper"

	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestPromptChoice(t *testing.T) {
	var out strings.Builder
	answer, err := PromptChoice(
		reader("maybe\n\n  Y \n"),
		&out,
		"continue? (y/n): ",
		[]string{"y", "n"},
		"Invalid input.",
	)
	require.NoError(t, err)
	require.Equal(t, "y", answer)
	require.Equal(t, 3, strings.Count(out.String(), "continue? (y/n): "))
	require.Equal(t, 2, strings.Count(out.String(), "Invalid input."))
}

func TestPromptChoiceWithoutTrailingNewline(t *testing.T) {
	var out strings.Builder
	answer, err := PromptChoice(reader("csv"), &out, "format: ", []string{"json", "csv"}, "invalid")
	require.NoError(t, err)
	require.Equal(t, "csv", answer)
}

func TestPromptChoiceEOF(t *testing.T) {
	var out strings.Builder
	_, err := PromptChoice(reader("xml\n"), &out, "format: ", []string{"json", "csv"}, "invalid")
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestChooseMode(t *testing.T) {
	var out strings.Builder

	mode, err := chooseMode(true, true, "sequential", reader(""), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Parallel, mode)
	require.Empty(t, out.String(), "the flag skips the prompt")

	mode, err = chooseMode(true, false, "", reader(""), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Sequential, mode)

	mode, err = chooseMode(false, false, "", reader("yes\ny\n"), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Parallel, mode)
	require.Contains(t, out.String(), "Use multiprocessing for Wikipedia scraping? (y/n): ")
	require.Contains(t, out.String(), "Invalid input. Please type 'y' or 'n'.")

	mode, err = chooseMode(false, true, "", reader("n\n"), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Sequential, mode)
}

func TestChooseModeFromConfig(t *testing.T) {
	var out strings.Builder

	mode, err := chooseMode(false, false, "Parallel", reader(""), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Parallel, mode)
	require.Empty(t, out.String(), "a configured mode skips the prompt")

	// the flag wins over the config
	mode, err = chooseMode(true, false, "parallel", reader(""), &out)
	require.NoError(t, err)
	require.Equal(t, scraper.Sequential, mode)

	_, err = chooseMode(false, false, "threads", reader(""), &out)
	require.Error(t, err)
}

func TestChooseFormat(t *testing.T) {
	var out strings.Builder

	format, err := chooseFormat("sqlite", reader(""), &out)
	require.NoError(t, err)
	require.Equal(t, export.FormatSQLite, format)
	require.Empty(t, out.String())

	// sqlite is not offered by the prompt
	format, err = chooseFormat("", reader("sqlite\nJSON\n"), &out)
	require.NoError(t, err)
	require.Equal(t, export.FormatJSON, format)
	require.Contains(t, out.String(), "Invalid choice. Please type only 'json' or 'csv'.")

	_, err = chooseFormat("xml", reader(""), &out)
	require.Error(t, err)
}
