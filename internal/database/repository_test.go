package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvocation(id string, created time.Time) *entity.Invocation {
	return &entity.Invocation{
		ID:        id,
		NodeType:  "flux_ideal_size",
		Inputs:    map[string]interface{}{"width": 1024.0, "height": 576.0, "multiplier": 1.0},
		Result:    entity.Size{Width: 1360, Height: 768},
		CreatedAt: created,
	}
}

// TestInvocationRepositories runs the same checks against every local backend
func TestInvocationRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) InvocationRepository{
		"file": func(t *testing.T) InvocationRepository {
			return NewFileInvocationRepository(storage.NewFileStorage(t.TempDir()))
		},
		"memory": func(t *testing.T) InvocationRepository {
			return NewMemoryInvocationRepository()
		},
	}

	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

			for i := 0; i < 3; i++ {
				id := fmt.Sprintf("inv-%d", i)
				require.NoError(t, repo.Save(ctx, newInvocation(id, base.Add(time.Duration(i)*time.Minute))))
			}

			inv, err := repo.FindByID(ctx, "inv-1")
			require.NoError(t, err)
			assert.Equal(t, "flux_ideal_size", inv.NodeType)
			assert.Equal(t, entity.Size{Width: 1360, Height: 768}, inv.Result)
			assert.True(t, base.Add(time.Minute).Equal(inv.CreatedAt))

			_, err = repo.FindByID(ctx, "missing")
			assert.ErrorIs(t, err, entity.ErrInvocationNotFound)

			all, err := repo.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "inv-2", all[0].ID)
			assert.Equal(t, "inv-0", all[2].ID)

			limited, err := repo.List(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, limited, 2)
			assert.Equal(t, "inv-2", limited[0].ID)
		})
	}
}

// TestFileRepositoryIgnoresPathSeparators checks ids cannot escape the storage dir
func TestFileRepositoryIgnoresPathSeparators(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewFileInvocationRepository(storage.NewFileStorage(dir))

	require.NoError(t, repo.Save(ctx, newInvocation("abc", time.Now())))

	inv, err := repo.FindByID(ctx, "../invocations/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", inv.ID)
}

// TestPostgresFindByIDRejectsNonUUID checks malformed ids are reported as missing without a query
func TestPostgresFindByIDRejectsNonUUID(t *testing.T) {
	repo := NewPostgresInvocationRepository(nil)

	for _, id := range []string{"missing", "", "1234", "../etc/passwd"} {
		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, entity.ErrInvocationNotFound, id)
	}
}

func TestNoopResultCache(t *testing.T) {
	ctx := context.Background()
	cache := NewNoopResultCache()

	require.NoError(t, cache.Set(ctx, "k", entity.Size{Width: 16, Height: 16}))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, entity.ErrCacheMiss)
}
