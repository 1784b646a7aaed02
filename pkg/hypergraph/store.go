package hypergraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cyber-phys/hyperplex/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const filePerm os.FileMode = 0o644

// Load reads the artifact at path. A missing file yields an empty hypergraph.
// An unparsable or invalid file yields an error wrapping ErrStorageCorrupt.
func Load(path string) (Hypergraph, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return Hypergraph{}, fmt.Errorf("read %s: %w", path, err)
	}

	g, err := decode(content)
	if err != nil {
		return Hypergraph{}, fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, path, err)
	}
	if err := Validate(g); err != nil {
		return Hypergraph{}, fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, path, err)
	}

	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Hyperedges == nil {
		g.Hyperedges = []Hyperedge{}
	}
	return g, nil
}

// decode accepts only an object carrying both top-level keys and no fields
// the artifact does not define, so a foreign JSON file is never mistaken for
// an empty hypergraph.
func decode(content []byte) (Hypergraph, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(content, &top); err != nil {
		return Hypergraph{}, err
	}
	if top == nil {
		return Hypergraph{}, errors.New("top level is not an object")
	}
	for _, key := range []string{"nodes", "hyperedges"} {
		if _, ok := top[key]; !ok {
			return Hypergraph{}, fmt.Errorf("missing %q", key)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	var g Hypergraph
	if err := dec.Decode(&g); err != nil {
		return Hypergraph{}, err
	}
	return g, nil
}

// Marshal serializes g the way Save writes it.
func Marshal(g Hypergraph) ([]byte, error) {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Hyperedges == nil {
		g.Hyperedges = []Hyperedge{}
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save atomically replaces the artifact at path with g, creating the parent
// directory if needed.
func Save(path string, g Hypergraph) error {
	data, err := Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal hypergraph: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return writeFileAtomic(path, data, filePerm)
}

// Store serializes read-modify-write cycles on one artifact file. It is the
// single writer for that file within a process; separate processes writing
// the same file still race.
type Store struct {
	path        string
	forceReinit bool

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithForceReinit makes the store move a corrupt artifact aside and start
// from an empty hypergraph instead of failing.
func WithForceReinit() Option {
	return func(s *Store) {
		s.forceReinit = true
	}
}

// Open returns a store bound to path. The file is not touched until the
// first read or write.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot loads the current artifact.
func (s *Store) Snapshot() (Hypergraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Update loads the artifact, applies fn and writes the result back while
// holding the store lock. Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(Hypergraph) (Hypergraph, error)) (Hypergraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Hypergraph{}, err
	}

	current, err := s.load()
	if err != nil {
		return Hypergraph{}, err
	}

	next, err := fn(current)
	if err != nil {
		return Hypergraph{}, err
	}
	if err := Validate(next); err != nil {
		return Hypergraph{}, fmt.Errorf("invalid update: %w", err)
	}

	if err := Save(s.path, next); err != nil {
		return Hypergraph{}, err
	}
	logger.Debug("[Store] Saved hypergraph", "path", s.path, "nodes", len(next.Nodes), "hyperedges", len(next.Hyperedges))

	return next, nil
}

// AddNode appends n and persists the artifact.
func (s *Store) AddNode(ctx context.Context, n Node) error {
	_, err := s.Update(ctx, func(g Hypergraph) (Hypergraph, error) {
		if g.HasNode(n.ID) {
			return Hypergraph{}, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		return AppendNode(g, n), nil
	})
	return err
}

// AddEdge appends e and persists the artifact.
func (s *Store) AddEdge(ctx context.Context, e Hyperedge) error {
	_, err := s.Update(ctx, func(g Hypergraph) (Hypergraph, error) {
		return AppendEdge(g, e), nil
	})
	return err
}

func (s *Store) load() (Hypergraph, error) {
	g, err := Load(s.path)
	if err == nil {
		return g, nil
	}
	if !s.forceReinit || !errors.Is(err, ErrStorageCorrupt) {
		return Hypergraph{}, err
	}

	suffix, idErr := gonanoid.New()
	if idErr != nil {
		return Hypergraph{}, fmt.Errorf("nanoid: %w", idErr)
	}
	quarantine := fmt.Sprintf("%s.corrupt-%s", s.path, suffix)
	if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
		return Hypergraph{}, fmt.Errorf("move corrupt artifact aside: %w", renameErr)
	}
	logger.Warn("[Store] Corrupt hypergraph moved aside, starting fresh", "path", s.path, "moved_to", quarantine, "err", err)

	return Empty(), nil
}
