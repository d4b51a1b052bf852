package leaders

import (
	"context"
	"net/http"
	"testing"
	"time"

	"leaders-scraper/internal/components/telemetry"
	"leaders-scraper/internal/model"
	"leaders-scraper/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, api *testutil.LeadersAPI) (*Session, *telemetry.RecordingAPI) {
	tel := &telemetry.RecordingAPI{}
	session := NewSession(SessionOptions{
		BaseUrl: api.URL(),
		Timeout: 5 * time.Second,
	}, tel)
	return session, tel
}

func TestParseSetCookie(t *testing.T) {
	testCases := []struct {
		header   string
		expected Token
		fails    bool
	}{
		{header: "user_cookie=abc123; Path=/; HttpOnly", expected: Token{"user_cookie": "abc123"}},
		{header: "user_cookie=a=b; Path=/", expected: Token{"user_cookie": "a=b"}},
		{header: "user_cookie=", expected: Token{"user_cookie": ""}},
		{header: "no-equals-sign; Path=/", fails: true},
		{header: "=value", fails: true},
	}

	for _, test := range testCases {
		token, err := ParseSetCookie(test.header)
		if test.fails {
			require.ErrorIs(t, err, model.ErrAuth, test.header)
			continue
		}
		require.NoError(t, err, test.header)
		require.Equal(t, test.expected, token)
	}
}

func TestAcquireToken(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	session, _ := newTestSession(t, api)

	token, err := session.AcquireToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, Token{testutil.TokenCookieName: "token-1"}, token)
	require.Equal(t, token, session.Token())
}

func TestAcquireTokenWithoutHeader(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	api.OmitCookie = true
	session, tel := newTestSession(t, api)

	_, err := session.AcquireToken(context.Background())
	require.ErrorIs(t, err, model.ErrAuth)
	require.Nil(t, session.Token())
	require.Len(t, tel.Reports("broken"), 1)
}

func TestRequestRefreshesExpiredToken(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	api.Countries = `["be", "fr"]`
	session, _ := newTestSession(t, api)
	ctx := context.Background()

	_, err := session.AcquireToken(ctx)
	require.NoError(t, err)
	api.Expire()

	countries, err := session.Countries(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"be", "fr"}, countries)

	require.Equal(t, 2, api.Calls("/cookie"))
	require.Equal(t, 2, api.Calls("/countries"))
	require.Equal(t, 1, api.Rejected())
	require.Equal(t, Token{testutil.TokenCookieName: "token-2"}, session.Token())
}

func TestRequestRejectedTwiceFails(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	api.AlwaysReject = true
	session, _ := newTestSession(t, api)
	ctx := context.Background()

	_, err := session.AcquireToken(ctx)
	require.NoError(t, err)

	_, err = session.Request(ctx, http.MethodGet, "/countries", nil)
	require.ErrorIs(t, err, model.ErrAuth)

	// the initial token plus exactly one refresh, and exactly two attempts
	require.Equal(t, 2, api.Calls("/cookie"))
	require.Equal(t, 2, api.Calls("/countries"))
}

func TestRequestAcquiresMissingToken(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	api.Countries = `["us"]`
	session, _ := newTestSession(t, api)

	countries, err := session.Countries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"us"}, countries)
	require.Equal(t, 1, api.Calls("/cookie"))
	require.Equal(t, 0, api.Rejected())
}

func TestRequestUnexpectedStatus(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	session, _ := newTestSession(t, api)

	_, err := session.Leaders(context.Background(), "atlantis")
	require.ErrorIs(t, err, model.ErrFetch)
	require.NotErrorIs(t, err, model.ErrAuth)
	require.Equal(t, 1, api.Calls("/cookie"))
}

func TestLeaders(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	api.Leaders["us"] = `[
		{"id": 1, "first_name": "Jane", "last_name": "Doe", "birth_year": 1950, "wikipedia_url": "https://example.test/Jane"},
		{"id": 2, "first_name": "John", "last_name": "Roe", "birth_year": 1960, "wikipedia_url": null}
	]`
	api.Leaders["empty"] = `[]`
	api.Leaders["broken"] = `{"message": "not a list"`
	session, _ := newTestSession(t, api)
	ctx := context.Background()

	leaders, err := session.Leaders(ctx, "us")
	require.NoError(t, err)
	require.Len(t, leaders, 2)
	require.Equal(t, "Jane", leaders[0].FirstName)
	require.Equal(t, "1", leaders[0].ID.String())
	require.Equal(t, "", leaders[1].WikipediaUrl)

	leaders, err = session.Leaders(ctx, "empty")
	require.NoError(t, err)
	require.NotNil(t, leaders)
	require.Empty(t, leaders)

	_, err = session.Leaders(ctx, "broken")
	require.ErrorIs(t, err, model.ErrMalformedResponse)
}

func TestRequestUnreachable(t *testing.T) {
	api := testutil.NewLeadersAPI(t)
	session, _ := newTestSession(t, api)
	api.Server.Close()

	_, err := session.Countries(context.Background())
	require.ErrorIs(t, err, model.ErrAuth)
}
