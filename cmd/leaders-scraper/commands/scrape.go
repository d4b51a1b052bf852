package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"leaders-scraper/internal/components/serviceutil"
	"leaders-scraper/internal/export"
	"leaders-scraper/internal/scraper"

	"github.com/spf13/cobra"
)

// chooseMode uses --parallel when it was given, then the fetch_mode of the
// config, and asks otherwise.
func chooseMode(given, parallel bool, configured string, in *bufio.Reader, out io.Writer) (scraper.FetchMode, error) {
	if !given && configured != "" {
		return scraper.ParseFetchMode(configured)
	}
	if !given {
		var err error
		parallel, err = promptParallel(in, out)
		if err != nil {
			return 0, err
		}
	}
	if parallel {
		return scraper.Parallel, nil
	}
	return scraper.Sequential, nil
}

// chooseFormat uses --format when it was given and asks otherwise. sqlite is
// only reachable through the flag.
func chooseFormat(format string, in *bufio.Reader, out io.Writer) (export.Format, error) {
	if format == "" {
		var err error
		format, err = promptFormat(in, out)
		if err != nil {
			return "", err
		}
	}
	return export.ParseFormat(format)
}

func runScrape(cmd *cobra.Command, f rootFlags) {
	ctx := cmd.Context()
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	// an invalid --format should fail before any scraping happens
	if f.format != "" {
		_, err := export.ParseFormat(f.format)
		if err != nil {
			serviceutil.Fatal("invalid --format", err)
		}
	}

	a := newApp(f)

	mode, err := chooseMode(cmd.Flags().Changed("parallel"), f.parallel, a.cfg.FetchMode, in, out)
	if err != nil {
		serviceutil.Fatal("failed to choose fetch mode", err)
	}

	err = a.scraper.Setup(ctx)
	if err != nil {
		serviceutil.Fatal("failed to acquire a token", err)
	}
	countries, err := a.scraper.Countries(ctx)
	if err != nil {
		serviceutil.Fatal("failed to fetch countries", err)
	}

	if len(f.countries) > 0 {
		var unknown []scraper.UnknownCountry
		countries, unknown = scraper.FilterCountries(countries, f.countries)
		for _, u := range unknown {
			if u.Suggestion != "" {
				slog.Warn("unknown country, skipping", "country", u.Requested, "did_you_mean", u.Suggestion)
				continue
			}
			slog.Warn("unknown country, skipping", "country", u.Requested)
		}
		if len(countries) == 0 {
			serviceutil.Fatal(
				"none of the requested countries exist",
				fmt.Errorf("requested %s", strings.Join(f.countries, ", ")),
			)
		}
	}

	slog.Info("scraping", "countries", len(countries), "mode", mode.String())
	startedAt := a.clock.Now()
	dataset, err := a.scraper.Run(ctx, countries, mode)
	if err != nil {
		serviceutil.Fatal("scraping interrupted", err)
	}
	slog.Info(
		"scraping time",
		"seconds", a.clock.Now().Sub(startedAt).Seconds(),
		"leaders", dataset.LeaderCount(),
	)

	format, err := chooseFormat(f.format, in, out)
	if err != nil {
		serviceutil.Fatal("failed to choose output format", err)
	}

	base := f.output
	if base == "" {
		base = a.cfg.Output
	}
	path := format.Path(base)

	err = export.Save(ctx, format, path, startedAt, dataset)
	if err != nil {
		serviceutil.Fatal("failed to save data", err)
	}
	fmt.Fprintf(out, "Data saved to %s\n", path)

	export.RenderSummary(out, dataset)
}
