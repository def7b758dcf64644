package tui

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// testServer answers the three endpoints and remembers every request URI
type testServer struct {
	*httptest.Server

	mu   sync.Mutex
	uris []string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ts.mu.Lock()
			ts.uris = append(ts.uris, r.Method+" "+r.URL.RequestURI())
			ts.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/app/hello", reply(`{"message":"Hola Ana"}`))
	mux.HandleFunc("/app/time", reply(`{"current_time":"2024-01-01T10:00:00"}`))
	mux.HandleFunc("/app/sum", reply(`{"a":2.00,"b":3.00,"sum":5.00}`))
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) requests() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string{}, ts.uris...)
}

// CreateTestModel creates a Model bound to a test server
func CreateTestModel(t *testing.T, ts *testServer) *Model {
	t.Helper()

	m, err := New(Options{BaseURL: ts.URL, Client: ts.Client()})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)
	return m
}

// focusOn moves the focus ring to the item with the given id
func focusOn(t *testing.T, m *Model, id string) {
	t.Helper()
	for i, item := range m.ring {
		if item.id == id {
			m.focus = i
			m.applyFocus()
			return
		}
	}
	t.Fatalf("no focus item %q", id)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// newFailingServer answers every request with 500
func newFailingServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	return server
}
