package database

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/storage"
)

const invocationsDir = "invocations"

type fileInvocationRepository struct {
	storage storage.FileStorage
}

func NewFileInvocationRepository(storage storage.FileStorage) InvocationRepository {
	return &fileInvocationRepository{storage: storage}
}

func (r *fileInvocationRepository) Save(_ context.Context, inv *entity.Invocation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}

	return r.storage.Save(r.invocationPath(inv.ID), bytes.NewReader(data))
}

func (r *fileInvocationRepository) FindByID(_ context.Context, id string) (*entity.Invocation, error) {
	reader, err := r.storage.Get(r.invocationPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entity.ErrInvocationNotFound
		}
		return nil, err
	}
	defer reader.Close()

	var inv entity.Invocation
	if err := json.NewDecoder(reader).Decode(&inv); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (r *fileInvocationRepository) List(ctx context.Context, limit int) ([]entity.Invocation, error) {
	names, err := r.storage.List(invocationsDir)
	if err != nil {
		return nil, err
	}

	invocations := make([]entity.Invocation, 0, len(names))
	for _, name := range names {
		id := name[:len(name)-len(filepath.Ext(name))]
		inv, err := r.FindByID(ctx, id)
		if err != nil {
			continue
		}
		invocations = append(invocations, *inv)
	}

	sort.SliceStable(invocations, func(i, j int) bool {
		return invocations[i].CreatedAt.After(invocations[j].CreatedAt)
	})
	if limit > 0 && len(invocations) > limit {
		invocations = invocations[:limit]
	}
	return invocations, nil
}

func (r *fileInvocationRepository) invocationPath(id string) string {
	return filepath.Join(invocationsDir, filepath.Base(id)+".json")
}
