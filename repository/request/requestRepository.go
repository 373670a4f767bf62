package requestrepo

import (
	"context"

	"shareit/model"

	"github.com/jmoiron/sqlx"
)

type Repo interface {
	Create(ctx context.Context, req *model.ItemRequest) error
	ByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error)
	ListOther(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, req *model.ItemRequest) error {
	const q = `
		INSERT INTO requests (description, requestor_id, created)
		VALUES ($1, $2, $3)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, q,
		req.Description, req.RequestorID, req.Created,
	).Scan(&req.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.ItemRequest, error) {
	req := &model.ItemRequest{}
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE id = $1`
	if err := r.db.GetContext(ctx, req, q, id); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error) {
	var out []model.ItemRequest
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id = $1
		ORDER BY created DESC, id DESC`
	if err := r.db.SelectContext(ctx, &out, q, requestorID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListOther(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error) {
	var out []model.ItemRequest
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id <> $1
		ORDER BY created DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, requestorID, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}
