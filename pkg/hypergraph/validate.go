package hypergraph

import (
	"fmt"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// Validate checks the minimal invariants of the artifact: every node and
// hyperedge has an id, every node a type, node ids are unique and every
// hyperedge has at least one source and one target. Dangling endpoints are
// not checked.
func Validate(g Hypergraph) error {
	if err := validate.Struct(g); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := seen[n.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	return nil
}
