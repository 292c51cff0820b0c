package node

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

type Registry struct {
	mu    sync.RWMutex
	nodes map[string]Node
}

func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]Node)}
}

// Default returns a registry holding both ideal size nodes.
func Default() *Registry {
	r := NewRegistry()
	for _, n := range []Node{IdealSize{}, KontextIdealSize{}} {
		if err := r.Register(n); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(n Node) error {
	info := n.Info()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.nodes[info.Type]; ok {
		return fmt.Errorf("%w: %s", entity.ErrNodeAlreadyRegistered, info.Type)
	}
	r.nodes[info.Type] = n
	return nil
}

func (r *Registry) Get(nodeType string) (Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNodeNotFound, nodeType)
	}
	return n, nil
}

// List returns the infos of all registered nodes ordered by type.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.nodes))
	for _, n := range r.nodes {
		infos = append(infos, n.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Type < infos[j].Type
	})
	return infos
}
