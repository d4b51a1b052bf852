// session.go talks to the leaders api, it owns the rotating auth token that
// every request carries as a cookie.

package leaders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"leaders-scraper/internal/components/assert"
	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_session_acquire_token = "session.acquire-token"
	report_session_request       = "session.request"
	report_session_countries     = "session.countries"
	report_session_leaders       = "session.leaders"
)

const (
	cookiePath    = "/cookie"
	countriesPath = "/countries"
	leadersPath   = "/leaders"
)

var tracer = telemetry.Tracer("scrapers.leaders")

// Token is the set of cookies the leaders api expects on every request.
type Token map[string]string

func (t Token) cookies() []*http.Cookie {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	cookies := make([]*http.Cookie, len(names))
	for i, name := range names {
		cookies[i] = &http.Cookie{Name: name, Value: t[name]}
	}
	return cookies
}

// ParseSetCookie extracts the token from a Set-Cookie header of the shape
// `name=value; Path=/; ...`.
func ParseSetCookie(header string) (Token, error) {
	pair, _, _ := strings.Cut(header, ";")
	name, value, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: unexpected Set-Cookie header '%s'", model.ErrAuth, header)
	}
	return Token{name: strings.TrimSpace(value)}, nil
}

type SessionOptions struct {
	BaseUrl   string
	UserAgent string
	Timeout   time.Duration
	// Output receives a dump of every request/response, it can be nil.
	Output telemetry.InstrumentOutput
}

// Session is a client for the leaders api. It is not safe for concurrent
// use, the token is replaced in place whenever the api rejects it.
type Session struct {
	Http  *resty.Client
	token Token

	tel telemetry.API
}

func NewSession(opts SessionOptions, tel telemetry.API) *Session {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)
	assert.Positive(opts.Timeout, "session timeout")

	tel = telemetry.NewScopedAPI("leaders_api", tel)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	// the token is attached explicitly, a jar would resend stale cookies
	httpClient.SetCookieJar(nil)
	httpClient.SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}

	telemetry.InstrumentResty(httpClient, tel, opts.Output)

	return &Session{
		Http: httpClient,
		tel:  tel,
	}
}

// Token returns a copy of the current token, nil if none was acquired yet.
func (s *Session) Token() Token {
	if s.token == nil {
		return nil
	}
	out := make(Token, len(s.token))
	for k, v := range s.token {
		out[k] = v
	}
	return out
}

// AcquireToken requests a fresh token and makes it the current one.
func (s *Session) AcquireToken(ctx context.Context) (Token, error) {
	ctx, span := tracer.Start(ctx, "session:AcquireToken")
	defer span.End()

	res, err := s.Http.R().
		SetContext(ctx).
		Get(cookiePath)
	if err != nil {
		err = fmt.Errorf("%w: request token: %w", model.ErrAuth, err)
		s.tel.ReportBroken(report_session_acquire_token, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request token")
		return nil, err
	}

	header := res.Header().Get("Set-Cookie")
	if header == "" {
		err = fmt.Errorf("%w: no Set-Cookie header in token response (status %d)", model.ErrAuth, res.StatusCode())
		s.tel.ReportBroken(report_session_acquire_token, err)
		span.SetStatus(codes.Error, "missing Set-Cookie header")
		return nil, err
	}
	token, err := ParseSetCookie(header)
	if err != nil {
		s.tel.ReportBroken(report_session_acquire_token, err)
		span.SetStatus(codes.Error, "malformed Set-Cookie header")
		return nil, err
	}

	s.token = token
	s.tel.ReportDebug("acquired token")
	return token, nil
}

func rejected(res *resty.Response) bool {
	return res.StatusCode() == http.StatusForbidden ||
		res.StatusCode() == http.StatusUnauthorized
}

func (s *Session) send(ctx context.Context, method, path string, query map[string]string) (*resty.Response, error) {
	res, err := s.Http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetCookies(s.token.cookies()).
		Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", model.ErrFetch, method, path, err)
	}
	return res, nil
}

// Request issues a request with the current token attached. If the api
// rejects the token, it is refreshed exactly once and the request is retried
// exactly once, a second rejection is returned as model.ErrAuth.
func (s *Session) Request(ctx context.Context, method, path string, query map[string]string) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "session:Request", trace.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
	))
	defer span.End()

	fail := func(err error, status string) (*resty.Response, error) {
		s.tel.ReportWarning(report_session_request, err, method, path)
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		return nil, err
	}

	if s.token == nil {
		_, err := s.AcquireToken(ctx)
		if err != nil {
			return fail(err, "no token")
		}
	}

	res, err := s.send(ctx, method, path, query)
	if err != nil {
		return fail(err, "request failed")
	}

	if rejected(res) {
		s.tel.ReportDebug("token rejected, refreshing", method, path, res.StatusCode())
		_, err = s.AcquireToken(ctx)
		if err != nil {
			return fail(err, "token refresh failed")
		}
		res, err = s.send(ctx, method, path, query)
		if err != nil {
			return fail(err, "retry failed")
		}
		if rejected(res) {
			return fail(
				fmt.Errorf(
					"%w: %s %s still rejected after token refresh (status %d)",
					model.ErrAuth, method, path, res.StatusCode(),
				),
				"rejected after refresh",
			)
		}
	}

	if !res.IsSuccess() {
		return fail(
			fmt.Errorf("%w: %s %s: unexpected status %d", model.ErrFetch, method, path, res.StatusCode()),
			"unexpected status",
		)
	}
	return res, nil
}

// Countries lists the country codes the api knows about.
func (s *Session) Countries(ctx context.Context) ([]string, error) {
	res, err := s.Request(ctx, http.MethodGet, countriesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("get countries: %w", err)
	}

	var countries []string
	err = json.Unmarshal(res.Body(), &countries)
	if err != nil {
		err = fmt.Errorf("get countries: %w: %w", model.ErrMalformedResponse, err)
		s.tel.ReportBroken(report_session_countries, err)
		return nil, err
	}
	s.tel.ReportCount(report_session_countries, int64(len(countries)))
	return countries, nil
}

// Leaders lists the leaders of a country, summaries are not attached.
func (s *Session) Leaders(ctx context.Context, country string) ([]model.Leader, error) {
	res, err := s.Request(ctx, http.MethodGet, leadersPath, map[string]string{
		"country": country,
	})
	if err != nil {
		return nil, fmt.Errorf("get leaders of '%s': %w", country, err)
	}

	var leaders []model.Leader
	err = json.Unmarshal(res.Body(), &leaders)
	if err != nil {
		err = fmt.Errorf("get leaders of '%s': %w: %w", country, model.ErrMalformedResponse, err)
		s.tel.ReportBroken(report_session_leaders, err, country)
		return nil, err
	}
	if leaders == nil {
		leaders = []model.Leader{}
	}
	return leaders, nil
}
