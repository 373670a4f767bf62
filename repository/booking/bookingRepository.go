// repository/booking/bookingRepository.go
package bookingrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/model"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
)

var pg = goqu.Dialect("postgres")

// Row is a booking joined with the bits of item and booker the services need.
type Row struct {
	model.Booking
	ItemName    string `db:"item_name"`
	ItemOwnerID int64  `db:"item_owner_id"`
	BookerName  string `db:"booker_name"`
}

type Repo interface {
	Insert(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*Row, error)
	ListByBooker(ctx context.Context, bookerID int64) ([]Row, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Row, error)

	// Decide flips a WAITING booking to the given status. Reports false
	// when the booking was already decided (or gone) by the time the
	// update ran, which keeps concurrent decisions from double-firing.
	Decide(ctx context.Context, id int64, status model.BookingStatus) (bool, error)

	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
	LastApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	NextApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (item_id, booker_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.QueryRowxContext(ctx, q,
		b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status,
	).Scan(&b.ID)
}

func (r *repo) ByID(ctx context.Context, id int64) (*Row, error) {
	row := &Row{}
	const q = `
		SELECT b.id, b.item_id, b.booker_id, b.start_time, b.end_time, b.status,
			i.name     AS item_name,
			i.owner_id AS item_owner_id,
			u.name     AS booker_name
		FROM bookings b
		JOIN items i ON i.id = b.item_id
		JOIN users u ON u.id = b.booker_id
		WHERE b.id = $1`
	if err := r.db.GetContext(ctx, row, q, id); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repo) ListByBooker(ctx context.Context, bookerID int64) ([]Row, error) {
	return r.list(ctx, goqu.I("b.booker_id").Eq(bookerID))
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64) ([]Row, error) {
	return r.list(ctx, goqu.I("i.owner_id").Eq(ownerID))
}

func (r *repo) list(ctx context.Context, cond goqu.Expression) ([]Row, error) {
	q, args, err := pg.From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.item_id"), goqu.I("b.booker_id"),
			goqu.I("b.start_time"), goqu.I("b.end_time"), goqu.I("b.status"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.owner_id").As("item_owner_id"),
			goqu.I("u.name").As("booker_name"),
		).
		Where(cond).
		Order(goqu.I("b.start_time").Desc(), goqu.I("b.id").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var out []Row
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Decide(ctx context.Context, id int64, status model.BookingStatus) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = $2
		WHERE id = $1
		AND status = 'WAITING'`
	res, err := r.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

func (r *repo) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE item_id = $1
			AND booker_id = $2
			AND status = 'APPROVED'
			AND end_time < $3
		)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, q, itemID, bookerID, now); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *repo) LastApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	const q = `
		SELECT id, item_id, booker_id, start_time, end_time, status
		FROM bookings
		WHERE item_id = $1
		AND status = 'APPROVED'
		AND start_time < $2
		ORDER BY start_time DESC
		LIMIT 1`
	return r.one(ctx, q, itemID, now)
}

func (r *repo) NextApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	const q = `
		SELECT id, item_id, booker_id, start_time, end_time, status
		FROM bookings
		WHERE item_id = $1
		AND status = 'APPROVED'
		AND start_time > $2
		ORDER BY start_time ASC
		LIMIT 1`
	return r.one(ctx, q, itemID, now)
}

func (r *repo) one(ctx context.Context, q string, args ...any) (*model.Booking, error) {
	b := &model.Booking{}
	if err := r.db.GetContext(ctx, b, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}
