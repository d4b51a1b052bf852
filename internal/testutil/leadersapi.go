package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const TokenCookieName = "user_cookie"

// LeadersAPI is an in-process stand in for the leaders api. Every issued
// token stays valid until Expire is called.
type LeadersAPI struct {
	Server *httptest.Server

	mutex sync.Mutex
	// Countries is the body of /countries.
	Countries string
	// Leaders maps a country code to the body of /leaders?country=<code>,
	// unknown countries answer 404.
	Leaders map[string]string
	// OmitCookie makes /cookie answer without a Set-Cookie header.
	OmitCookie bool
	// AlwaysReject makes every authenticated endpoint answer 403.
	AlwaysReject bool

	current  string
	issued   int
	calls    map[string]int
	rejected int
}

// NewLeadersAPI starts the stub, it is closed when the test ends.
func NewLeadersAPI(t testing.TB) *LeadersAPI {
	api := &LeadersAPI{
		Countries: `[]`,
		Leaders:   map[string]string{},
		calls:     map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/cookie", api.handleCookie)
	mux.HandleFunc("/countries", api.authenticated(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, api.Countries)
	}))
	mux.HandleFunc("/leaders", api.authenticated(func(w http.ResponseWriter, r *http.Request) {
		body, ok := api.Leaders[r.URL.Query().Get("country")]
		if !ok {
			http.Error(w, `{"message": "unknown country"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Server.Close)
	return api
}

func (a *LeadersAPI) URL() string {
	return a.Server.URL
}

func (a *LeadersAPI) handleCookie(w http.ResponseWriter, r *http.Request) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.calls[r.URL.Path]++
	if a.OmitCookie {
		w.WriteHeader(http.StatusOK)
		return
	}
	a.issued++
	a.current = fmt.Sprintf("token-%d", a.issued)
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    a.current,
		Path:     "/",
		HttpOnly: true,
	})
	fmt.Fprint(w, `{"message": "The cookie has been created"}`)
}

func (a *LeadersAPI) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mutex.Lock()
		a.calls[r.URL.Path]++
		cookie, err := r.Cookie(TokenCookieName)
		valid := err == nil && a.current != "" && cookie.Value == a.current && !a.AlwaysReject
		if !valid {
			a.rejected++
		}
		a.mutex.Unlock()

		if !valid {
			http.Error(w, `{"message": "The cookie is expired"}`, http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// Expire invalidates the current token, the next authenticated request is
// rejected until a new token is acquired.
func (a *LeadersAPI) Expire() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.current = ""
}

// Calls returns how many times `path` was requested.
func (a *LeadersAPI) Calls(path string) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.calls[path]
}

// Rejected returns how many authenticated requests were answered with 403.
func (a *LeadersAPI) Rejected() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.rejected
}
