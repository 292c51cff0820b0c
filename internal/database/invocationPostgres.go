package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/google/uuid"

	_ "github.com/lib/pq"
)

type postgresInvocationRepository struct {
	db *sql.DB
}

func NewPostgresInvocationRepository(db *sql.DB) InvocationRepository {
	return &postgresInvocationRepository{db: db}
}

func (r *postgresInvocationRepository) Save(ctx context.Context, inv *entity.Invocation) error {
	inputs, err := json.Marshal(inv.Inputs)
	if err != nil {
		return err
	}

	query := `INSERT INTO invocations (id, node_type, inputs, width, height, cached, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query,
		inv.ID, inv.NodeType, inputs, inv.Result.Width, inv.Result.Height, inv.Cached, inv.CreatedAt)
	return err
}

func (r *postgresInvocationRepository) FindByID(ctx context.Context, id string) (*entity.Invocation, error) {
	// the id column is UUID, anything else can never match
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrInvocationNotFound
	}

	query := `SELECT id, node_type, inputs, width, height, cached, created_at FROM invocations WHERE id = $1`

	inv, err := scanInvocation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrInvocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *postgresInvocationRepository) List(ctx context.Context, limit int) ([]entity.Invocation, error) {
	query := `SELECT id, node_type, inputs, width, height, cached, created_at
		FROM invocations ORDER BY created_at DESC LIMIT $1`

	// LIMIT NULL means no limit
	var lim interface{}
	if limit > 0 {
		lim = limit
	}

	rows, err := r.db.QueryContext(ctx, query, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []entity.Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		invocations = append(invocations, *inv)
	}

	return invocations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvocation(row rowScanner) (*entity.Invocation, error) {
	var inv entity.Invocation
	var inputs []byte

	err := row.Scan(&inv.ID, &inv.NodeType, &inputs, &inv.Result.Width, &inv.Result.Height, &inv.Cached, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputs, &inv.Inputs); err != nil {
		return nil, err
	}
	return &inv, nil
}
