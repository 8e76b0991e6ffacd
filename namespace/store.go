package namespace

import (
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
)

// Default is the name of the namespace every [Store] starts with.
const Default = "default"

// Store owns the namespaces of one run.
type Store struct {
	mu       sync.Mutex
	spaces   map[string]*Namespace
	builtins map[string]any
	output   io.Writer
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithBuiltins adds identifiers visible to every namespace of the store.
// Bindings made by executed code shadow them.
func WithBuiltins(builtins map[string]any) StoreOption {
	return func(s *Store) { maps.Copy(s.builtins, builtins) }
}

// WithOutput sets where Go interpreter output goes when no execution is
// capturing it. The default is [os.Stdout].
func WithOutput(w io.Writer) StoreOption {
	return func(s *Store) {
		if w == nil {
			w = io.Discard
		}

		s.output = w
	}
}

// NewStore returns a store containing the [Default] namespace.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		spaces:   make(map[string]*Namespace),
		builtins: Builtins(),
		output:   os.Stdout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.Namespace(Default)

	return s
}

// Namespace returns the namespace called name, creating it on first
// reference. An empty or blank name refers to [Default].
func (s *Store) Namespace(name string) *Namespace {
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.spaces[name]
	if !ok {
		ns = newNamespace(name, s.builtins, s.output)
		s.spaces[name] = ns
	}

	return ns
}

// Has reports whether the namespace called name exists.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.spaces[name]

	return ok
}

// Names returns the sorted names of all namespaces.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Sorted(maps.Keys(s.spaces))
}
