package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/config"
	"github.com/studiowebux/appclient/internal/history"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/app/hello", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "Mundo"
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "¡Hola, " + name + "!"})
	})
	mux.HandleFunc("/app/sum", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"a": 2.00, "b": 3.00, "sum": 5.00}`))
	})
	mux.HandleFunc("/app/time", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func options(server *httptest.Server, control string, in actions.Input, format string) RunOptions {
	cfg := config.Default()
	cfg.BaseURL = server.URL
	return RunOptions{
		Control:      control,
		Input:        in,
		OutputFormat: format,
		Config:       cfg,
		Client:       server.Client(),
	}
}

func TestRun_BodyFormat(t *testing.T) {
	server := testServer(t)
	var buf bytes.Buffer

	err := Run(context.Background(), options(server, actions.ControlHelloGet, actions.Input{Name: "Ana"}, FormatBody), &buf)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"message\": \"¡Hola, Ana!\"\n}\n", buf.String())
}

func TestRun_TextFormat(t *testing.T) {
	server := testServer(t)
	var buf bytes.Buffer

	err := Run(context.Background(), options(server, actions.ControlSum, actions.Input{A: "2", B: "3"}, FormatText), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "GET "+server.URL+"/app/sum?a=2&b=3 -> 200")
	assert.Contains(t, out, "Duration: ")
	assert.Contains(t, out, "\"sum\": 5.00")
}

func TestRun_JSONFormat(t *testing.T) {
	server := testServer(t)
	var buf bytes.Buffer

	err := Run(context.Background(), options(server, actions.ControlHelloPost, actions.Input{NamePost: "Luis"}, FormatJSON), &buf)
	require.NoError(t, err)

	var result Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "POST", result.Method)
	assert.Equal(t, actions.ControlHelloPost, result.Control)
	assert.Equal(t, 200, result.Status)
	assert.Contains(t, result.Body, "¡Hola, Luis!")
	assert.NotEmpty(t, result.ID)
}

func TestRun_YAMLFormatWithQuery(t *testing.T) {
	server := testServer(t)
	var buf bytes.Buffer

	opts := options(server, actions.ControlSum, actions.Input{}, FormatYAML)
	opts.Query = "sum"
	require.NoError(t, Run(context.Background(), opts, &buf))

	var result Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "5", result.Body)
	assert.Equal(t, server.URL+"/app/sum?a=0&b=0", result.URL)
}

func TestRun_FailureIsSurfaced(t *testing.T) {
	server := testServer(t)
	var buf bytes.Buffer

	err := Run(context.Background(), options(server, actions.ControlTime, actions.Input{}, FormatText), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, buf.String(), "Error: ")
	assert.Contains(t, buf.String(), "503")
}

func TestRun_RecordsHistory(t *testing.T) {
	server := testServer(t)
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer mgr.Close()

	opts := options(server, actions.ControlHelloGet, actions.Input{Name: "Ana"}, FormatBody)
	opts.History = mgr
	require.NoError(t, Run(context.Background(), opts, &bytes.Buffer{}))

	opts = options(server, actions.ControlTime, actions.Input{}, FormatBody)
	opts.History = mgr
	require.Error(t, Run(context.Background(), opts, &bytes.Buffer{}))

	entries, err := mgr.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, actions.ControlTime, entries[0].Control)
	assert.NotEmpty(t, entries[0].Error)
	assert.Equal(t, actions.ControlHelloGet, entries[1].Control)

	var buf bytes.Buffer
	require.NoError(t, History(mgr, HistoryOptions{Limit: 10}, &buf))
	assert.Contains(t, buf.String(), "/app/hello?name=Ana")

	buf.Reset()
	require.NoError(t, Stats(mgr, FormatText, &buf))
	assert.Contains(t, buf.String(), actions.ControlTime)
	assert.Contains(t, buf.String(), "100.0%")

	buf.Reset()
	require.NoError(t, Stats(mgr, FormatJSON, &buf))
	var stats []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &stats))
	assert.Len(t, stats, 2)

	buf.Reset()
	require.NoError(t, History(mgr, HistoryOptions{Control: actions.ControlTime, Limit: 10}, &buf))
	assert.Contains(t, buf.String(), "/app/time")
	assert.NotContains(t, buf.String(), "/app/hello")

	buf.Reset()
	require.NoError(t, History(mgr, HistoryOptions{Clear: true}, &buf))
	assert.Equal(t, "Cleared 2 history entries\n", buf.String())
	count, err := mgr.GetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRun_SaveToFile(t *testing.T) {
	server := testServer(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	opts := options(server, actions.ControlHelloGet, actions.Input{Name: "Ana"}, FormatBody)
	opts.SavePath = path
	var buf bytes.Buffer
	require.NoError(t, Run(context.Background(), opts, &buf))

	assert.Empty(t, buf.String())
	assert.FileExists(t, path)
}

func TestRun_UnknownControl(t *testing.T) {
	server := testServer(t)
	err := Run(context.Background(), options(server, "btnNope", actions.Input{}, FormatText), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFormatOutput_UnknownFormat(t *testing.T) {
	_, err := formatOutput(Result{}, "xml")
	assert.Error(t, err)
}

func TestRun_InvalidQuerySendsNothing(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"sum": 5}`))
	}))
	t.Cleanup(server.Close)

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer mgr.Close()

	opts := options(server, actions.ControlSum, actions.Input{A: "2", B: "3"}, FormatText)
	opts.Query = "[["
	opts.History = mgr

	var buf bytes.Buffer
	err = Run(context.Background(), opts, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JMESPath")
	assert.Equal(t, int32(0), hits.Load())
	assert.Empty(t, buf.String())

	count, err := mgr.GetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHistory_ControlFilter(t *testing.T) {
	server := testServer(t)
	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer mgr.Close()

	for _, name := range []string{"Ana", "Luis", "Eva"} {
		opts := options(server, actions.ControlHelloGet, actions.Input{Name: name}, FormatBody)
		opts.History = mgr
		require.NoError(t, Run(context.Background(), opts, &bytes.Buffer{}))
	}
	opts := options(server, actions.ControlSum, actions.Input{A: "2", B: "3"}, FormatBody)
	opts.History = mgr
	require.NoError(t, Run(context.Background(), opts, &bytes.Buffer{}))

	var buf bytes.Buffer
	require.NoError(t, History(mgr, HistoryOptions{Control: actions.ControlHelloGet, Limit: 2, OutputFormat: FormatJSON}, &buf))
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, actions.ControlHelloGet, e["control"])
	}

	err = History(mgr, HistoryOptions{Control: "btnMissing"}, &buf)
	assert.ErrorContains(t, err, "unknown control")
}
