package requestsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shareit/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrBlankDesc       = errors.New("description must not be blank")
)

// dto

// ItemAnswer is an item offered in response to a request.
type ItemAnswer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type View struct {
	ID          int64        `json:"id"`
	Description string       `json:"description"`
	Created     time.Time    `json:"created"`
	Items       []ItemAnswer `json:"items"`
}

type Repo interface {
	Create(ctx context.Context, req *model.ItemRequest) error
	ByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error)
	ListOther(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error)
}

type UserRepo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type ItemRepo interface {
	ListByRequestID(ctx context.Context, requestID int64) ([]model.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*View, error)
	GetOwn(ctx context.Context, requestorID int64) ([]View, error)

	// GetAllOther pages through everyone else's requests, newest first.
	GetAllOther(ctx context.Context, requestorID int64, from, size int) ([]View, error)

	GetByID(ctx context.Context, userID, requestID int64) (*View, error)
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

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*View, error) {
	if err := s.userExists(ctx, requestorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrBlankDesc
	}

	req := &model.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     time.Now(),
	}
	if err := s.r.Create(ctx, req); err != nil {
		return nil, err
	}
	return toView(req, nil), nil
}

func (s *service) GetOwn(ctx context.Context, requestorID int64) ([]View, error) {
	if err := s.userExists(ctx, requestorID); err != nil {
		return nil, err
	}
	reqs, err := s.r.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) GetAllOther(ctx context.Context, requestorID int64, from, size int) ([]View, error) {
	if err := s.userExists(ctx, requestorID); err != nil {
		return nil, err
	}

	// Page semantics: the page containing "from" at the given size.
	page := from / size
	reqs, err := s.r.ListOther(ctx, requestorID, size, page*size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*View, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.r.ByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	items, err := s.ir.ListByRequestID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toView(req, items), nil
}

// attachItems resolves answering items for a whole page in one query.
func (s *service) attachItems(ctx context.Context, reqs []model.ItemRequest) ([]View, error) {
	if len(reqs) == 0 {
		return []View{}, nil
	}

	ids := make([]int64, 0, len(reqs))
	for i := range reqs {
		ids = append(ids, reqs[i].ID)
	}
	items, err := s.ir.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byReq := make(map[int64][]model.Item)
	for i := range items {
		if items[i].RequestID == nil {
			continue
		}
		byReq[*items[i].RequestID] = append(byReq[*items[i].RequestID], items[i])
	}

	out := make([]View, 0, len(reqs))
	for i := range reqs {
		out = append(out, *toView(&reqs[i], byReq[reqs[i].ID]))
	}
	return out, nil
}

func toView(req *model.ItemRequest, items []model.Item) *View {
	v := &View{
		ID:          req.ID,
		Description: req.Description,
		Created:     req.Created,
		Items:       make([]ItemAnswer, 0, len(items)),
	}
	for i := range items {
		v.Items = append(v.Items, ItemAnswer{
			ID:      items[i].ID,
			Name:    items[i].Name,
			OwnerID: items[i].OwnerID,
		})
	}
	return v
}

func (s *service) userExists(ctx context.Context, id int64) error {
	if _, err := s.ur.ByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
