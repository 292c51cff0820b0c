package database

import (
	"context"
	"sort"
	"sync"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

type memoryInvocationRepository struct {
	mu          sync.RWMutex
	invocations map[string]entity.Invocation
}

func NewMemoryInvocationRepository() InvocationRepository {
	return &memoryInvocationRepository{invocations: make(map[string]entity.Invocation)}
}

func (r *memoryInvocationRepository) Save(_ context.Context, inv *entity.Invocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invocations[inv.ID] = *inv
	return nil
}

func (r *memoryInvocationRepository) FindByID(_ context.Context, id string) (*entity.Invocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invocations[id]
	if !ok {
		return nil, entity.ErrInvocationNotFound
	}
	return &inv, nil
}

func (r *memoryInvocationRepository) List(_ context.Context, limit int) ([]entity.Invocation, error) {
	r.mu.RLock()
	invocations := make([]entity.Invocation, 0, len(r.invocations))
	for _, inv := range r.invocations {
		invocations = append(invocations, inv)
	}
	r.mu.RUnlock()

	sort.Slice(invocations, func(i, j int) bool {
		if invocations[i].CreatedAt.Equal(invocations[j].CreatedAt) {
			return invocations[i].ID < invocations[j].ID
		}
		return invocations[i].CreatedAt.After(invocations[j].CreatedAt)
	})
	if limit > 0 && len(invocations) > limit {
		invocations = invocations[:limit]
	}
	return invocations, nil
}
