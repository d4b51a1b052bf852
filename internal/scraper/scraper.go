package scraper

import (
	"context"
	"fmt"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"
	"leaders-scraper/internal/scrapers/leaders"

	"go.opentelemetry.io/otel/codes"
)

const (
	report_scraper_setup   = "scraper.setup"
	report_scraper_country = "scraper.country"
	report_scraper_run     = "scraper.run"
)

// LeaderSource is the leaders api, *leaders.Session implements it.
type LeaderSource interface {
	AcquireToken(ctx context.Context) (leaders.Token, error)
	Countries(ctx context.Context) ([]string, error)
	Leaders(ctx context.Context, country string) ([]model.Leader, error)
}

// Scraper builds the dataset: countries -> leaders -> summaries.
type Scraper struct {
	source   LeaderSource
	enricher Enricher
	tel      telemetry.API
}

func NewScraper(source LeaderSource, enricher Enricher, tel telemetry.API) Scraper {
	assert.NotNil(source)
	assert.NotNil(tel)

	return Scraper{
		source:   source,
		enricher: enricher,
		tel:      telemetry.NewScopedAPI("scraper", tel),
	}
}

// Setup acquires the initial token, a failure here should abort the run.
func (s Scraper) Setup(ctx context.Context) error {
	_, err := s.source.AcquireToken(ctx)
	if err != nil {
		s.tel.ReportBroken(report_scraper_setup, err)
		return fmt.Errorf("scraper setup: %w", err)
	}
	return nil
}

// Countries lists every country the api knows about.
func (s Scraper) Countries(ctx context.Context) ([]string, error) {
	countries, err := s.source.Countries(ctx)
	if err != nil {
		s.tel.ReportBroken(report_scraper_setup, err)
		return nil, fmt.Errorf("scraper setup: %w", err)
	}
	return countries, nil
}

// Run scrapes the leaders of every country and enriches them. A country
// whose leaders cannot be fetched is reported and skipped. The dataset is
// returned even when ctx ends early, along with ctx's error.
func (s Scraper) Run(ctx context.Context, countries []string, mode FetchMode) (model.Dataset, error) {
	ctx, span := tracer.Start(ctx, "scraper:Run")
	defer span.End()

	dataset := model.Dataset{}
	for _, country := range countries {
		if ctx.Err() != nil {
			span.SetStatus(codes.Error, "cancelled")
			return dataset, ctx.Err()
		}

		s.tel.ReportInfo("scraping country", country)
		countryLeaders, err := s.source.Leaders(ctx, country)
		if err != nil {
			s.tel.ReportWarning(report_scraper_country, fmt.Errorf("skipping country: %w", err), country)
			continue
		}

		dataset[country] = s.enricher.Enrich(ctx, countryLeaders, mode)
		s.tel.ReportCount(report_scraper_run, int64(dataset.LeaderCount()))
	}

	return dataset, nil
}
