// Package hypergraph holds the directed hypergraph artifact that all
// ingested evidence ends up in, and the file-backed store that persists it.
package hypergraph

import (
	"time"

	"github.com/google/uuid"
)

// Node types written by the ingestion pipeline. Other values are allowed.
const (
	NodeTypeScreenshot = "screenshot"
	NodeTypeDocument   = "document"
	NodeTypeConcept    = "concept"
)

// TimeFormat is the layout of Node.Time.
const TimeFormat = time.RFC3339Nano

// Node is an atomic unit of evidence.
//
// Description is nil when enrichment failed, which keeps a failed
// annotation distinguishable from an empty one.
type Node struct {
	ID          string  `json:"id" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Data        string  `json:"data"`
	Time        string  `json:"time"`
	Description *string `json:"description"`
}

// Hyperedge is a labeled many-to-many relation between node sets.
// Endpoints may reference nodes that do not exist yet.
type Hyperedge struct {
	ID      string   `json:"id" validate:"required"`
	Label   string   `json:"label"`
	Sources []string `json:"sources" validate:"required,min=1,dive,required"`
	Targets []string `json:"targets" validate:"required,min=1,dive,required"`
}

// Pair is one (source, target) combination of a hyperedge.
type Pair struct {
	Source string
	Target string
}

// Pairs expands the hyperedge into the cross product of its sources and
// targets, ordered by source first.
func (e Hyperedge) Pairs() []Pair {
	pairs := make([]Pair, 0, len(e.Sources)*len(e.Targets))
	for _, s := range e.Sources {
		for _, t := range e.Targets {
			pairs = append(pairs, Pair{Source: s, Target: t})
		}
	}
	return pairs
}

// Hypergraph is the persisted artifact. Both collections keep insertion order.
type Hypergraph struct {
	Nodes      []Node      `json:"nodes" validate:"dive"`
	Hyperedges []Hyperedge `json:"hyperedges" validate:"dive"`
}

// Empty returns a hypergraph with no nodes and no hyperedges.
func Empty() Hypergraph {
	return Hypergraph{
		Nodes:      []Node{},
		Hyperedges: []Hyperedge{},
	}
}

// NewNode creates a node with a fresh id and the current process timestamp.
func NewNode(nodeType string, data string, description *string) Node {
	return Node{
		ID:          uuid.NewString(),
		Type:        nodeType,
		Data:        data,
		Time:        now().Format(TimeFormat),
		Description: description,
	}
}

// NewHyperedge creates a hyperedge with a fresh id. The id slices are copied.
func NewHyperedge(label string, sources []string, targets []string) Hyperedge {
	return Hyperedge{
		ID:      uuid.NewString(),
		Label:   label,
		Sources: append([]string(nil), sources...),
		Targets: append([]string(nil), targets...),
	}
}

// AppendNode returns g with n appended. The backing array of g is never
// written to, so snapshots taken before the call stay valid.
func AppendNode(g Hypergraph, n Node) Hypergraph {
	nodes := make([]Node, len(g.Nodes), len(g.Nodes)+1)
	copy(nodes, g.Nodes)
	return Hypergraph{
		Nodes:      append(nodes, n),
		Hyperedges: g.Hyperedges,
	}
}

// AppendEdge returns g with e appended, with the same copy semantics as AppendNode.
func AppendEdge(g Hypergraph, e Hyperedge) Hypergraph {
	edges := make([]Hyperedge, len(g.Hyperedges), len(g.Hyperedges)+1)
	copy(edges, g.Hyperedges)
	return Hypergraph{
		Nodes:      g.Nodes,
		Hyperedges: append(edges, e),
	}
}

// Node returns the node with the given id.
func (g Hypergraph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode reports whether a node with the given id exists.
func (g Hypergraph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}
