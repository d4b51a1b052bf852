package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_enricher_fetch   = "enricher.fetch"
	report_enricher_summary = "enricher.summary"
)

var tracer = telemetry.Tracer("scraper")

// FetchMode selects how wikipedia pages are downloaded.
type FetchMode int

const (
	// Sequential fetches one page at a time over a shared connection and
	// retries a failed page once.
	Sequential FetchMode = iota
	// Parallel fetches pages on a pool of independent workers without
	// retries.
	Parallel
)

func (m FetchMode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("FetchMode(%d)", int(m))
	}
}

func ParseFetchMode(s string) (FetchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential":
		return Sequential, nil
	case "parallel":
		return Parallel, nil
	}
	return 0, fmt.Errorf("unknown fetch mode '%s'", s)
}

// SummaryFetcher downloads a page and extracts its summary.
// *wikipedia.Client implements it.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, url string) (summary string, found bool, err error)
}

type EnricherOptions struct {
	// Shared is used for every page in sequential mode.
	Shared SummaryFetcher
	// NewIndependent builds a fresh fetcher for a single page in parallel
	// mode, fetchers are never reused across pages.
	NewIndependent func() SummaryFetcher
	Workers        int
	RetryBackoff   time.Duration
}

// Enricher attaches wikipedia summaries to leaders.
type Enricher struct {
	shared         SummaryFetcher
	newIndependent func() SummaryFetcher
	workers        int
	backoff        time.Duration

	tel telemetry.API
}

func NewEnricher(opts EnricherOptions, tel telemetry.API) Enricher {
	assert.NotNil(opts.Shared)
	assert.NotNil(opts.NewIndependent)
	assert.NotNil(tel)
	assert.Positive(opts.Workers, "enricher workers")

	return Enricher{
		shared:         opts.Shared,
		newIndependent: opts.NewIndependent,
		workers:        opts.Workers,
		backoff:        opts.RetryBackoff,
		tel:            telemetry.NewScopedAPI("enricher", tel),
	}
}

// Enrich returns the leaders with summaries attached, in input order.
//
// Leaders without a url always get a nil summary. A page that cannot be
// fetched gives a nil summary in sequential mode, and leaves the leader
// untouched (no summary at all) in parallel mode.
func (e Enricher) Enrich(ctx context.Context, leaders []model.Leader, mode FetchMode) []model.Leader {
	ctx, span := tracer.Start(ctx, "enricher:Enrich", trace.WithAttributes(
		attribute.String("mode", mode.String()),
		attribute.Int("leaders", len(leaders)),
	))
	defer span.End()

	if mode == Parallel {
		return e.enrichParallel(ctx, leaders)
	}
	return e.enrichSequential(ctx, leaders)
}

func (e Enricher) enrichSequential(ctx context.Context, leaders []model.Leader) []model.Leader {
	out := make([]model.Leader, len(leaders))
	for i, leader := range leaders {
		if leader.WikipediaUrl == "" {
			out[i] = leader.WithSummary(nil)
			continue
		}
		out[i] = leader.WithSummary(e.fetchWithRetry(ctx, leader.WikipediaUrl))
	}
	return out
}

// sleep waits for `d` and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e Enricher) fetchWithRetry(ctx context.Context, url string) *string {
	e.tel.ReportInfo("fetching", url)
	summary, found, err := e.shared.FetchSummary(ctx, url)
	if errors.Is(err, model.ErrFetch) {
		e.tel.ReportWarning(report_enricher_fetch, err, url)
		if !sleep(ctx, e.backoff) {
			return nil
		}
		e.tel.ReportInfo("retrying", url)
		summary, found, err = e.shared.FetchSummary(ctx, url)
	}
	if err != nil {
		e.tel.ReportWarning(report_enricher_fetch, fmt.Errorf("giving up: %w", err), url)
		return nil
	}
	if !found {
		return nil
	}
	return &summary
}

// fetchIndependently is the unit of work of a parallel worker, it only sees
// the leader it was handed and a fetcher of its own.
func fetchIndependently(ctx context.Context, fetcher SummaryFetcher, tel telemetry.API, leader model.Leader) model.Leader {
	if leader.WikipediaUrl == "" {
		return leader.WithSummary(nil)
	}

	tel.ReportInfo("fetching", leader.WikipediaUrl)
	summary, found, err := fetcher.FetchSummary(ctx, leader.WikipediaUrl)
	if err != nil {
		tel.ReportWarning(report_enricher_fetch, err, leader.WikipediaUrl)
		return leader
	}
	if !found {
		return leader.WithSummary(nil)
	}
	return leader.WithSummary(&summary)
}

type enrichTask struct {
	index  int
	leader model.Leader
}

func (e Enricher) enrichParallel(ctx context.Context, leaders []model.Leader) []model.Leader {
	out := make([]model.Leader, len(leaders))

	workers := e.workers
	if workers > len(leaders) {
		workers = len(leaders)
	}

	queue := make(chan enrichTask)
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				// each task writes to its own index, no locking needed
				out[task.index] = fetchIndependently(ctx, e.newIndependent(), e.tel, task.leader)
			}
		}()
	}

	for i, leader := range leaders {
		queue <- enrichTask{index: i, leader: leader}
	}
	close(queue)
	wg.Wait()

	summarized := 0
	for _, leader := range out {
		if leader.Summary != nil {
			summarized++
		}
	}
	e.tel.ReportCount(report_enricher_summary, int64(summarized))

	return out
}
