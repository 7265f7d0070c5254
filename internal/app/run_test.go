package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/pathfinder/internal/session"
	"github.com/specialistvlad/pathfinder/internal/testutil"
	"github.com/specialistvlad/pathfinder/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var searchEvents = []string{
	`{"type":"status","msg":"Crawling layer 0"}`,
	`{"type":"node_added","node":{"id":"https://wiki.test/A","title":"Alpha","depth":0}}`,
	`{"type":"node_added","node":{"id":"https://wiki.test/B","title":"Beta","depth":1}}`,
	`{"type":"node_added","node":{"id":"https://wiki.test/C","depth":1}}`,
	`{"type":"link_added","link":{"source":"https://wiki.test/A","target":"https://wiki.test/B"}}`,
	`{"type":"link_added","link":{"source":"https://wiki.test/A","target":"https://wiki.test/C"}}`,
	`{"type":"path_found","path":["https://wiki.test/A","https://wiki.test/B"],"time":1.25}`,
}

func newRunConfig(t *testing.T, endpoint, output string) *Config {
	t.Helper()
	cfg := validConfig()
	cfg.Endpoint = endpoint
	cfg.Output = output
	cfg.Search.Algorithm = "BFS"
	c, err := NewConfig(cfg)
	require.NoError(t, err)
	return c
}

func TestRun_TextReport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	svc := testutil.NewSearchService(t, testutil.Script{Events: searchEvents})
	cfg := newRunConfig(t, svc.URL, OutputText)
	a, out, _ := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_url":"https://wiki.test/A","target_url":"https://wiki.test/B","max_nodes":100,"algorithm":"BFS"}`, svc.NextRequest(t))

	report := out.String()
	assert.Contains(t, report, "[connecting] Connecting...")
	assert.Contains(t, report, "[active] Connected! Searching with BFS...")
	assert.Contains(t, report, "[active] Crawling layer 0")
	assert.Contains(t, report, "Status:  Path found! Length: 2 steps.")
	assert.Contains(t, report, "Nodes:   3 discovered, 2 links")
	assert.Contains(t, report, "Elapsed: 1.25s")
	assert.Contains(t, report, "1. Alpha  https://wiki.test/A")
	assert.Contains(t, report, "2. Beta  https://wiki.test/B")
	assert.Contains(t, report, "DEPTH")
	assert.Contains(t, report, "No Title")

	assert.Equal(t, session.PhaseClosed, a.Controller().State().Phase)
}

func TestRun_JSONReport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	svc := testutil.NewSearchService(t, testutil.Script{Events: searchEvents})
	cfg := newRunConfig(t, svc.URL, OutputJSON)
	a, out, _ := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))

	// --- Act ---
	require.NoError(t, a.Run(context.Background()))

	// --- Assert ---
	var doc struct {
		Phase       string   `json:"phase"`
		Searching   bool     `json:"searching"`
		WinningPath []string `json:"winning_path"`
		Elapsed     float64  `json:"elapsed"`
		Tree        struct {
			Name       string `json:"name"`
			Attributes struct {
				IsWinner bool `json:"isWinner"`
			} `json:"attributes"`
			Children []json.RawMessage `json:"children"`
		} `json:"tree"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc), out.String())
	assert.Equal(t, "closed", doc.Phase)
	assert.False(t, doc.Searching)
	assert.Equal(t, []string{"https://wiki.test/A", "https://wiki.test/B"}, doc.WinningPath)
	assert.InDelta(t, 1.25, doc.Elapsed, 1e-9)
	assert.Equal(t, "Alpha", doc.Tree.Name)
	assert.True(t, doc.Tree.Attributes.IsWinner)
	assert.Len(t, doc.Tree.Children, 2)
}

func TestRun_YAMLReport(t *testing.T) {
	t.Parallel()

	svc := testutil.NewSearchService(t, testutil.Script{Events: searchEvents})
	cfg := newRunConfig(t, svc.URL, OutputYAML)
	a, out, _ := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))

	require.NoError(t, a.Run(context.Background()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &doc), out.String())
	assert.Equal(t, "closed", doc["phase"])
	tree, ok := doc["tree"].(map[string]any)
	require.True(t, ok, "tree should be a mapping")
	assert.Equal(t, "Alpha", tree["name"])
}

func TestRun_TimeoutResetsAndReportsPartialState(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	svc := testutil.NewSearchService(t, testutil.Script{Events: searchEvents[:2], Hold: true})
	cfg := newRunConfig(t, svc.URL, OutputJSON)
	cfg.Timeout = 300 * time.Millisecond
	a, out, logs := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	var doc struct {
		Phase string            `json:"phase"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out.String()), &doc), out.String())
	assert.Equal(t, "active", doc.Phase)
	assert.Len(t, doc.Nodes, 1)

	assert.Equal(t, session.PhaseIdle, a.Controller().State().Phase, "the run resets the controller")
	assert.Contains(t, logs.String(), "Search timed out.")
	assert.Contains(t, logs.String(), "Starting search.")
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	svc := testutil.NewSearchService(t, testutil.Script{Hold: true})
	cfg := newRunConfig(t, svc.URL, OutputNone)
	a, out, _ := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	svc.NextRequest(t)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Empty(t, out.String())
}

func TestRun_DialFailureStillReports(t *testing.T) {
	t.Parallel()

	// --- Arrange: a listener that is already gone ---
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	srv.Close()
	cfg := newRunConfig(t, endpoint, OutputText)
	a, out, logs := SetupAppTest(t, cfg, transport.NewWebSocketDialer(transport.Options{}))

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Path:    not found")
	assert.Contains(t, logs.String(), "Connection ended with error.")
	assert.Equal(t, session.PhaseClosed, a.Controller().State().Phase)
}
