// repository/item/itemRepository.go
package itemrepo

import (
	"context"

	"shareit/model"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
)

var pg = goqu.Dialect("postgres")

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	ByID(ctx context.Context, id int64) (*model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	ListByRequestID(ctx context.Context, requestID int64) ([]model.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error)

	InsertComment(ctx context.Context, cm *model.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]model.Comment, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, it *model.Item) error {
	const q = `
		INSERT INTO items (owner_id, name, description, available, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, q,
		it.OwnerID, it.Name, it.Description, it.Available, it.RequestID,
	).Scan(&it.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Item, error) {
	it := &model.Item{}
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE id = $1`
	if err := r.db.GetContext(ctx, it, q, id); err != nil {
		return nil, err
	}
	return it, nil
}

// Update rewrites the mutable fields; owner_id and request_id never change.
func (r *repo) Update(ctx context.Context, it *model.Item) error {
	const q = `
		UPDATE items
		SET name = $2,
			description = $3,
			available = $4
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, it.ID, it.Name, it.Description, it.Available)
	return err
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	var out []model.Item
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE owner_id = $1
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &out, q, ownerID); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches name or description case-insensitively, available items only.
func (r *repo) Search(ctx context.Context, text string) ([]model.Item, error) {
	pattern := "%" + text + "%"
	q, args, err := pg.From("items").
		Select("id", "owner_id", "name", "description", "available", "request_id").
		Where(
			goqu.C("available").IsTrue(),
			goqu.Or(
				goqu.C("name").ILike(pattern),
				goqu.C("description").ILike(pattern),
			),
		).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var out []model.Item
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListByRequestID(ctx context.Context, requestID int64) ([]model.Item, error) {
	var out []model.Item
	const q = `
		SELECT id, owner_id, name, description, available, request_id
		FROM items
		WHERE request_id = $1
		ORDER BY id`
	if err := r.db.SelectContext(ctx, &out, q, requestID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, 0, len(requestIDs))
	for _, id := range requestIDs {
		ids = append(ids, id)
	}
	q, args, err := pg.From("items").
		Select("id", "owner_id", "name", "description", "available", "request_id").
		Where(goqu.C("request_id").In(ids...)).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var out []model.Item
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Comments

func (r *repo) InsertComment(ctx context.Context, cm *model.Comment) error {
	const q = `
		INSERT INTO comments (item_id, author_id, text, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, q,
		cm.ItemID, cm.AuthorID, cm.Text, cm.Created,
	).Scan(&cm.ID)
}

func (r *repo) CommentsByItem(ctx context.Context, itemID int64) ([]model.Comment, error) {
	var out []model.Comment
	const q = `
		SELECT id, item_id, author_id, text, created
		FROM comments
		WHERE item_id = $1
		ORDER BY created DESC, id DESC`
	if err := r.db.SelectContext(ctx, &out, q, itemID); err != nil {
		return nil, err
	}
	return out, nil
}
