package itemsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shareit/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")
	ErrNotOwner     = errors.New("only the owner can edit the item")
	ErrBlankField   = errors.New("name and description must not be blank")
	ErrBlankComment = errors.New("comment text must not be blank")
	ErrNotCompleted = errors.New("booking not completed")
)

// dto

type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// View is the item as a given viewer is allowed to see it. LastBooking and
// NextBooking stay null for everyone but the owner.
type View struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Available   bool          `json:"available"`
	RequestID   *int64        `json:"requestId,omitempty"`
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []CommentView `json:"comments"`
}

type CreateInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type UpdateInput struct {
	Name        *string
	Description *string
	Available   *bool
}

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	ByID(ctx context.Context, id int64) (*model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	InsertComment(ctx context.Context, cm *model.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]model.Comment, error)
}

type UserRepo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type BookingRepo interface {
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
	LastApprovedBefore(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	NextApprovedAfter(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, in CreateInput) (*View, error)
	Update(ctx context.Context, ownerID, itemID int64, in UpdateInput) (*View, error)

	// GetByID enriches the item for the viewer: comments always, last and
	// next approved booking only for the owner.
	GetByID(ctx context.Context, viewerID, itemID int64) (*View, error)

	ListByOwner(ctx context.Context, ownerID int64) ([]View, error)
	Search(ctx context.Context, text string) ([]View, error)

	// AddComment requires a finished approved booking by the author.
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentView, error)
}

// ----- Service implementation -----

type service struct {
	r  Repo
	ur UserRepo
	br BookingRepo
}

func New(r Repo, ur UserRepo, br BookingRepo) Service {
	return &service{r: r, ur: ur, br: br}
}

func (s *service) Create(ctx context.Context, ownerID int64, in CreateInput) (*View, error) {
	if _, err := s.user(ctx, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrBlankField
	}

	it := &model.Item{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
	}
	if err := s.r.Create(ctx, it); err != nil {
		return nil, err
	}
	return bareView(it), nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID int64, in UpdateInput) (*View, error) {
	it, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, ErrBlankField
		}
		it.Name = *in.Name
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, ErrBlankField
		}
		it.Description = *in.Description
	}
	if in.Available != nil {
		it.Available = *in.Available
	}

	if err := s.r.Update(ctx, it); err != nil {
		return nil, err
	}
	return bareView(it), nil
}

func (s *service) GetByID(ctx context.Context, viewerID, itemID int64) (*View, error) {
	if _, err := s.user(ctx, viewerID); err != nil {
		return nil, err
	}
	it, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, it, viewerID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]View, error) {
	if _, err := s.user(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(items))
	for i := range items {
		v, err := s.enrich(ctx, &items[i], ownerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, text string) ([]View, error) {
	if strings.TrimSpace(text) == "" {
		return []View{}, nil
	}
	items, err := s.r.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(items))
	for i := range items {
		out = append(out, *bareView(&items[i]))
	}
	return out, nil
}

func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentView, error) {
	author, err := s.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankComment
	}

	now := time.Now()
	done, err := s.br.HasFinishedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, ErrNotCompleted
	}

	cm := &model.Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
		Created:  now,
	}
	if err := s.r.InsertComment(ctx, cm); err != nil {
		return nil, err
	}

	// Author name is snapshotted at write time, not re-resolved later.
	return &CommentView{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: author.Name,
		Created:    cm.Created,
	}, nil
}

// enrich builds the viewer-specific view as a pure function of the stored
// item, never by mutating it.
func (s *service) enrich(ctx context.Context, it *model.Item, viewerID int64) (*View, error) {
	v := bareView(it)

	comments, err := s.r.CommentsByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		name := ""
		author, err := s.ur.ByID(ctx, comments[i].AuthorID)
		switch {
		case err == nil:
			name = author.Name
		case !errors.Is(err, sql.ErrNoRows):
			return nil, err
		}
		v.Comments = append(v.Comments, CommentView{
			ID:         comments[i].ID,
			Text:       comments[i].Text,
			AuthorName: name,
			Created:    comments[i].Created,
		})
	}

	if viewerID != it.OwnerID {
		return v, nil
	}

	now := time.Now()
	last, err := s.br.LastApprovedBefore(ctx, it.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.br.NextApprovedAfter(ctx, it.ID, now)
	if err != nil {
		return nil, err
	}
	v.LastBooking = toShort(last)
	v.NextBooking = toShort(next)
	return v, nil
}

func bareView(it *model.Item) *View {
	return &View{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []CommentView{},
	}
}

func toShort(b *model.Booking) *BookingShort {
	if b == nil {
		return nil
	}
	return &BookingShort{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.StartTime,
		End:      b.EndTime,
	}
}

func (s *service) user(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) item(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}
