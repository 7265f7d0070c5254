package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/specialistvlad/pathfinder/internal/graphstore"
	"github.com/specialistvlad/pathfinder/internal/protocol"
	"github.com/specialistvlad/pathfinder/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport_TextMarksWinnersAndTruncates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	nodes := []protocol.NodeRecord{
		{ID: "u/root", Title: "Root", Depth: 0},
		{ID: "u/long", Title: "A Remarkably Long Article Title", Depth: 1},
		{ID: "u/other", Depth: 1},
	}
	v := session.ViewState{
		Phase:        session.PhaseClosed,
		Status:       "Path found! Length: 3 steps.",
		Nodes:        nodes,
		Edges:        []protocol.EdgeRecord{{Source: "u/root", Target: "u/long"}, {Source: "u/root", Target: "u/other"}},
		Layers:       []graphstore.Layer{{Depth: 0, Nodes: nodes[:1]}, {Depth: 1, Nodes: nodes[1:]}},
		WinningPath:  []string{"u/root", "u/long", "u/missing"},
		WinningEdges: []protocol.EdgeRecord{{Source: "u/root", Target: "u/long"}},
	}
	var out bytes.Buffer

	// --- Act ---
	err := writeReport(&out, OutputText, v)

	// --- Assert ---
	require.NoError(t, err)
	report := out.String()
	assert.Contains(t, report, "Path:    3 steps")
	assert.Contains(t, report, "2. A Remarkably Lo...  u/long")
	assert.Contains(t, report, "3. No Title  u/missing")
	assert.NotContains(t, report, "Elapsed:")
	assert.Contains(t, report, "Links:   1 of 2 on path")
	assert.Contains(t, report, "Root -> A Remarkably Lo...")
	assert.NotContains(t, report, "-> No Title")

	var winnerRows, rows int
	for _, line := range strings.Split(report, "\n") {
		if strings.Contains(line, "| u/") {
			rows++
			if strings.Contains(line, "*") {
				winnerRows++
			}
		}
	}
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, winnerRows)
}

func TestWriteReport_EmptyStateJSON(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	err := writeReport(&out, OutputJSON, session.ViewState{Status: "Ready to search."})

	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, map[string]any{}, doc["tree"])
	assert.Equal(t, "idle", doc["phase"])
}

func TestWriteReport_EmptyState(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		format string
		want   string
	}{
		{format: OutputNone, want: ""},
		{format: OutputText, want: "Path:    not found"},
		{format: OutputYAML, want: "tree: {}"},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer

			err := writeReport(&out, tc.format, session.ViewState{Status: "Ready to search."})

			require.NoError(t, err)
			if tc.want == "" {
				assert.Empty(t, out.String())
				return
			}
			assert.Contains(t, out.String(), tc.want)
		})
	}
}
