package telemetry

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &RecordingAPI{}
	scoped := NewScopedAPI("session", rec)

	scoped.ReportBroken("leaders", "fr")
	scoped.ReportCount("countries", 3)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "session: leaders", broken[0].ID)
	require.Equal(t, []any{"fr"}, broken[0].Params)

	counts := rec.Reports("count")
	require.Len(t, counts, 1)
	require.Equal(t, []any{int64(3)}, counts[0].Params)
}

type memoryOutput map[string]string

func (m memoryOutput) Write(id string, contents string) {
	m[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	rec := &RecordingAPI{}
	out := memoryOutput{}
	client := resty.New()
	InstrumentResty(client, rec, out)

	res, err := client.R().Get(server.URL + "/path")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	debug := rec.Reports("debug")
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].ID)
	require.Equal(t, report_resty_response, debug[1].ID)

	require.Len(t, out, 1)
	for _, dump := range out {
		require.Contains(t, dump, "X-Test: yes")
		require.Contains(t, dump, "hello")
		require.Contains(t, dump, "<NO BODY AVAILABLE>")
	}
}

func TestInstrumentRestySharedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	rec := &RecordingAPI{}
	out := memoryOutput{}
	first := resty.New()
	InstrumentResty(first, rec, out)
	second := resty.New()
	InstrumentResty(second, rec, out)

	for _, client := range []*resty.Client{first, second, first, second} {
		_, err := client.R().Get(server.URL)
		require.NoError(t, err)
	}
	require.Len(t, out, 4, "every exchange gets its own dump")
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &RecordingAPI{}
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().Get(url)
	require.Error(t, err)
	require.Len(t, rec.Reports("broken"), 1)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("7", "contents")
	data, err := os.ReadFile(filepath.Join(dir, "7"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(data))
}
