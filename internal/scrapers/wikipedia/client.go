package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_client_fetch_summary = "client.fetch-summary"
)

var tracer = telemetry.Tracer("scrapers.wikipedia")

type ClientOptions struct {
	UserAgent string
	Timeout   time.Duration
	// CloudflareBypass wraps the transport so requests look like they come
	// from a browser.
	CloudflareBypass bool
	// CloseConnection disables keep-alive, every request gets its own
	// connection.
	CloseConnection bool
	// Output receives a dump of every request/response, it can be nil.
	Output telemetry.InstrumentOutput
}

// Client fetches wikipedia pages, no authentication is involved.
type Client struct {
	Http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)
	assert.Positive(opts.Timeout, "wikipedia client timeout")

	tel = telemetry.NewScopedAPI("wikipedia", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetCloseConnection(opts.CloseConnection)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	telemetry.InstrumentResty(httpClient, tel, opts.Output)

	return &Client{
		Http: httpClient,
		tel:  tel,
	}
}

// FetchSummary downloads the page at `url` and extracts its first
// informative paragraph. `found` is false when the page has no such
// paragraph. Transport failures and non-200 statuses are model.ErrFetch.
func (c *Client) FetchSummary(ctx context.Context, url string) (summary string, found bool, err error) {
	ctx, span := tracer.Start(ctx, "client:FetchSummary", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		err = fmt.Errorf("%w: get %s: %w", model.ErrFetch, url, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", false, err
	}
	if res.StatusCode() != 200 {
		err = fmt.Errorf("%w: get %s: status %d", model.ErrFetch, url, res.StatusCode())
		span.SetStatus(codes.Error, "unexpected status")
		return "", false, err
	}

	summary, found, err = ExtractFirstParagraphFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_summary, err, url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return "", false, err
	}
	if !found {
		c.tel.ReportWarning(report_client_fetch_summary, "no informative paragraph", url)
	}
	return summary, found, nil
}
