package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shareit/model"
	brepo "shareit/repository/booking"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound ErrCode = "USER_NOT_FOUND"
	ErrItemNotFound ErrCode = "ITEM_NOT_FOUND"
	ErrNotFound     ErrCode = "BOOKING_NOT_FOUND"
	ErrNotOwner     ErrCode = "NOT_OWNER"
	ErrBadDates     ErrCode = "BAD_DATES"
	ErrUnavailable  ErrCode = "ITEM_UNAVAILABLE"
	ErrDecided      ErrCode = "ALREADY_DECIDED"
	ErrUnknownState ErrCode = "UNKNOWN_STATE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// State is the query filter over a booking's status and time window.
// It is derived at read time, never stored.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState is case-sensitive; anything unrecognized is an error, never
// a silent default.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", makeErr(ErrUnknownState)
	}
}

// dto

type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type View struct {
	ID     int64               `json:"id"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Status model.BookingStatus `json:"status"`
	Booker UserShort           `json:"booker"`
	Item   ItemShort           `json:"item"`
}

type CreateInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// Row = repository shape
type Row = brepo.Row

type Repo interface {
	Insert(ctx context.Context, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*Row, error)
	ListByBooker(ctx context.Context, bookerID int64) ([]Row, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Row, error)
	Decide(ctx context.Context, id int64, status model.BookingStatus) (bool, error)
}

type UserRepo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type ItemRepo interface {
	ByID(ctx context.Context, id int64) (*model.Item, error)
}

type Service interface {
	// Create: place a WAITING booking on someone else's available item.
	Create(ctx context.Context, bookerID int64, in CreateInput) (*View, error)

	// Decide: owner approves or rejects a WAITING booking. Terminal.
	Decide(ctx context.Context, actorID, bookingID int64, approved bool) (*View, error)

	// GetByID: visible to the booker and the item owner only.
	GetByID(ctx context.Context, viewerID, bookingID int64) (*View, error)

	ListForBooker(ctx context.Context, bookerID int64, st State) ([]View, error)
	ListForOwner(ctx context.Context, ownerID int64, st State) ([]View, error)
}

// ----- Service implementation -----

type service struct {
	r  Repo
	ur UserRepo
	ir ItemRepo
}

func New(r Repo, ur UserRepo, ir ItemRepo) Service {
	return &service{r: r, ur: ur, ir: ir}
}

func (s *service) Create(ctx context.Context, bookerID int64, in CreateInput) (*View, error) {
	booker, err := s.user(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	if in.Start.IsZero() || in.End.IsZero() {
		return nil, makeErr(ErrBadDates)
	}
	if !in.Start.Before(in.End) {
		return nil, makeErr(ErrBadDates)
	}
	now := time.Now()
	if in.Start.Before(now) || in.End.Before(now) {
		return nil, makeErr(ErrBadDates)
	}

	item, err := s.ir.ByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}
	if !item.Available {
		return nil, makeErr(ErrUnavailable)
	}
	// Masked as not-found on purpose: the owner learns nothing about
	// whether self-booking is even a concept.
	if item.OwnerID == bookerID {
		return nil, makeErr(ErrItemNotFound)
	}

	b := &model.Booking{
		ItemID:    item.ID,
		BookerID:  bookerID,
		StartTime: in.Start,
		EndTime:   in.End,
		Status:    model.BookingWaiting,
	}
	if err := s.r.Insert(ctx, b); err != nil {
		return nil, err
	}

	return &View{
		ID:     b.ID,
		Start:  b.StartTime,
		End:    b.EndTime,
		Status: b.Status,
		Booker: UserShort{ID: booker.ID, Name: booker.Name},
		Item:   ItemShort{ID: item.ID, Name: item.Name},
	}, nil
}

func (s *service) Decide(ctx context.Context, actorID, bookingID int64, approved bool) (*View, error) {
	row, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if row.ItemOwnerID != actorID {
		return nil, makeErr(ErrNotOwner)
	}
	if row.Status != model.BookingWaiting {
		return nil, makeErr(ErrDecided)
	}

	status := model.BookingRejected
	if approved {
		status = model.BookingApproved
	}

	// Compare-and-swap on WAITING so a concurrent decision loses cleanly.
	ok, err := s.r.Decide(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrDecided)
	}

	row.Status = status
	return toView(row), nil
}

func (s *service) GetByID(ctx context.Context, viewerID, bookingID int64) (*View, error) {
	if _, err := s.user(ctx, viewerID); err != nil {
		return nil, err
	}

	row, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Strangers get not-found, not forbidden, so booking ids leak nothing.
	if viewerID != row.BookerID && viewerID != row.ItemOwnerID {
		return nil, makeErr(ErrNotFound)
	}
	return toView(row), nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID int64, st State) ([]View, error) {
	if _, err := s.user(ctx, bookerID); err != nil {
		return nil, err
	}
	rows, err := s.r.ListByBooker(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	return filterViews(rows, st, time.Now()), nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID int64, st State) ([]View, error) {
	if _, err := s.user(ctx, ownerID); err != nil {
		return nil, err
	}
	rows, err := s.r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filterViews(rows, st, time.Now()), nil
}

// filterViews keeps the repository ordering (start_time desc) and applies
// the state window against a single now.
func filterViews(rows []Row, st State, now time.Time) []View {
	out := make([]View, 0, len(rows))
	for i := range rows {
		if matchesState(&rows[i], st, now) {
			out = append(out, *toView(&rows[i]))
		}
	}
	return out
}

func matchesState(b *Row, st State, now time.Time) bool {
	switch st {
	case StateCurrent:
		// In progress by time window alone; status does not matter here.
		return b.StartTime.Before(now) && b.EndTime.After(now)
	case StatePast:
		return b.EndTime.Before(now)
	case StateFuture:
		// Includes WAITING and REJECTED bookings scheduled ahead.
		return b.StartTime.After(now)
	case StateWaiting:
		return b.Status == model.BookingWaiting
	case StateRejected:
		return b.Status == model.BookingRejected
	default:
		return true
	}
}

func toView(row *Row) *View {
	return &View{
		ID:     row.ID,
		Start:  row.StartTime,
		End:    row.EndTime,
		Status: row.Status,
		Booker: UserShort{ID: row.BookerID, Name: row.BookerName},
		Item:   ItemShort{ID: row.ItemID, Name: row.ItemName},
	}
}

func (s *service) user(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) booking(ctx context.Context, id int64) (*Row, error) {
	row, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return row, nil
}
