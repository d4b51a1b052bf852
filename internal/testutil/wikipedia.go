package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Wikipedia serves canned html pages under /wiki/<name>.
type Wikipedia struct {
	Server *httptest.Server

	mutex sync.Mutex
	pages map[string]string
	// failures maps a page to how many of its next requests answer 500
	failures map[string]int
	hits     map[string]int
}

// NewWikipedia starts the stub, it is closed when the test ends.
func NewWikipedia(t testing.TB) *Wikipedia {
	w := &Wikipedia{
		pages:    map[string]string{},
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	w.Server = httptest.NewServer(http.HandlerFunc(w.handle))
	t.Cleanup(w.Server.Close)
	return w
}

// Page registers an html page and returns its url.
func (w *Wikipedia) Page(name, html string) string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.pages["/wiki/"+name] = html
	return w.Url(name)
}

// Url is the url of a page, registered or not.
func (w *Wikipedia) Url(name string) string {
	return fmt.Sprintf("%s/wiki/%s", w.Server.URL, name)
}

// FailNext makes the next `n` requests for `name` answer 500.
func (w *Wikipedia) FailNext(name string, n int) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.failures["/wiki/"+name] = n
}

// Hits returns how many times the page was requested.
func (w *Wikipedia) Hits(name string) int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.hits["/wiki/"+name]
}

func (w *Wikipedia) handle(rw http.ResponseWriter, r *http.Request) {
	w.mutex.Lock()
	w.hits[r.URL.Path]++
	page, ok := w.pages[r.URL.Path]
	failing := w.failures[r.URL.Path] > 0
	if failing {
		w.failures[r.URL.Path]--
	}
	w.mutex.Unlock()

	if failing {
		http.Error(rw, "upstream unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(rw, r)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(rw, page)
}

// Article wraps paragraphs into a minimal wikipedia-like document.
func Article(paragraphs ...string) string {
	body := `<div class="mw-parser-output"><table class="infobox"><tr><td>Infobox</td></tr></table>`
	for _, p := range paragraphs {
		body += "<p>" + p + "</p>"
	}
	return "<!DOCTYPE html><html><head><title>Article</title></head><body>" + body + "</div></body></html>"
}
