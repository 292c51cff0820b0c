package database

import (
	"context"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

type InvocationRepository interface {
	Save(ctx context.Context, inv *entity.Invocation) error
	FindByID(ctx context.Context, id string) (*entity.Invocation, error)
	// List returns up to limit invocations, newest first.
	List(ctx context.Context, limit int) ([]entity.Invocation, error)
}

type ResultCache interface {
	Get(ctx context.Context, key string) (entity.Size, error)
	Set(ctx context.Context, key string, size entity.Size) error
}
