package commands

import (
	"time"

	"leaders-scraper/internal/components/chrono"
	"leaders-scraper/internal/components/serviceutil"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/config"
	"leaders-scraper/internal/scraper"
	"leaders-scraper/internal/scrapers/leaders"
	"leaders-scraper/internal/scrapers/wikipedia"
)

type app struct {
	cfg     config.Config
	clock   chrono.API
	scraper scraper.Scraper
}

// newApp reads the config and builds the clients, failures are fatal.
func newApp(f rootFlags) app {
	cfg, err := config.Read(f.config)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	backoff, err := cfg.Backoff()
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	var output telemetry.InstrumentOutput
	if f.dumpHttp != "" {
		fsout, err := telemetry.NewFilesystemOutput(f.dumpHttp)
		if err != nil {
			serviceutil.Fatal("failed to create http dump directory", err)
		}
		output = fsout
	}

	tel := telemetry.SlogAPI{}

	session := leaders.NewSession(leaders.SessionOptions{
		BaseUrl:   cfg.BaseUrl,
		UserAgent: cfg.UserAgent,
		Timeout:   timeout,
		Output:    output,
	}, tel)

	wikiOpts := wikipedia.ClientOptions{
		UserAgent:        cfg.UserAgent,
		Timeout:          timeout,
		CloudflareBypass: cfg.CloudflareBypass,
		Output:           output,
	}
	enricher := scraper.NewEnricher(scraper.EnricherOptions{
		Shared: wikipedia.NewClient(wikiOpts, tel),
		NewIndependent: func() scraper.SummaryFetcher {
			opts := wikiOpts
			opts.CloseConnection = true
			return wikipedia.NewClient(opts, tel)
		},
		Workers:      cfg.WorkerCount(),
		RetryBackoff: backoff,
	}, tel)

	return app{
		cfg:     cfg,
		clock:   chrono.NewStandardImpl(time.Local),
		scraper: scraper.NewScraper(session, enricher, tel),
	}
}
