package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/specialistvlad/pathfinder/internal/projector"
	"github.com/specialistvlad/pathfinder/internal/session"
	"gopkg.in/yaml.v3"
)

// writeReport renders v in the configured output format.
func (a *App) writeReport(v session.ViewState) error {
	return writeReport(a.outW, a.config.Output, v)
}

func writeReport(w io.Writer, format string, v session.ViewState) error {
	switch format {
	case OutputNone:
		return nil
	case OutputJSON:
		body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", body)
		return err
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeTextReport(w, v)
	}
}

func writeTextReport(w io.Writer, v session.ViewState) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Status:  %s\n", v.Status)
	fmt.Fprintf(w, "Nodes:   %d discovered, %d links\n", len(v.Nodes), len(v.Edges))
	if v.Elapsed != nil {
		fmt.Fprintf(w, "Elapsed: %.2fs\n", *v.Elapsed)
	}

	titles := make(map[string]string, len(v.Nodes))
	for _, n := range v.Nodes {
		titles[n.ID] = n.Title
	}

	if len(v.WinningPath) == 0 {
		fmt.Fprintln(w, "Path:    not found")
	} else {
		fmt.Fprintf(w, "Path:    %d steps\n", len(v.WinningPath))
		for i, id := range v.WinningPath {
			fmt.Fprintf(w, "  %d. %s  %s\n", i+1, displayName(titles, id), id)
		}
		if len(v.WinningEdges) > 0 {
			fmt.Fprintf(w, "Links:   %d of %d on path\n", len(v.WinningEdges), len(v.WinningPath)-1)
			for _, e := range v.WinningEdges {
				fmt.Fprintf(w, "  %s -> %s\n", displayName(titles, e.Source), displayName(titles, e.Target))
			}
		}
	}

	if len(v.Layers) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Depth", "Title", "URL", "Winner"})
	table.SetAutoWrapText(false)
	for _, layer := range v.Layers {
		for _, n := range layer.Nodes {
			winner := ""
			if v.IsWinner(n.ID) {
				winner = "*"
			}
			table.Append([]string{strconv.Itoa(layer.Depth), displayName(titles, n.ID), n.ID, winner})
		}
	}
	table.Render()
	return nil
}

// displayName is the caption of id. Unknown and untitled nodes get the
// placeholder title.
func displayName(titles map[string]string, id string) string {
	return projector.Label(titles[id])
}
