package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/cyber-phys/hyperplex/pkg/hypergraph"

	"github.com/spf13/cobra"
)

const (
	previewLen = 80
	maxPairs   = 5
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of the hypergraph file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore(cfg)
		g, err := store.Snapshot()
		if err != nil {
			return err
		}
		describeGraph(cmd.OutOrStdout(), store.Path(), g)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func describeGraph(w io.Writer, path string, g hypergraph.Hypergraph) {
	fmt.Fprintf(w, "%s: %d nodes, %d hyperedges\n", path, len(g.Nodes), len(g.Hyperedges))

	byType := map[string]int{}
	for _, n := range g.Nodes {
		byType[n.Type]++
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %-12s %d\n", t, byType[t])
	}

	if len(g.Nodes) == 0 {
		return
	}
	last := g.Nodes[len(g.Nodes)-1]
	fmt.Fprintf(w, "last node %s (%s) at %s\n", last.ID, last.Type, last.Time)
	if last.Description != nil {
		fmt.Fprintf(w, "  %s\n", preview(*last.Description))
	}

	if len(g.Hyperedges) == 0 {
		return
	}
	edge := g.Hyperedges[len(g.Hyperedges)-1]
	pairs := edge.Pairs()
	fmt.Fprintf(w, "last hyperedge %s (%s), %d pairs\n", edge.ID, edge.Label, len(pairs))
	for i, p := range pairs {
		if i == maxPairs {
			fmt.Fprintf(w, "  ... %d more\n", len(pairs)-maxPairs)
			break
		}
		fmt.Fprintf(w, "  %s -> %s\n", p.Source, p.Target)
	}
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
