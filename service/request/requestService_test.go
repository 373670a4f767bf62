// service/request/requestService_test.go
package requestsvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"shareit/model"
	requestsvc "shareit/service/request"
)

type repoMock struct {
	createFn          func(ctx context.Context, req *model.ItemRequest) error
	byIDFn            func(ctx context.Context, id int64) (*model.ItemRequest, error)
	listByRequestorFn func(ctx context.Context, requestorID int64) ([]model.ItemRequest, error)
	listOtherFn       func(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error)
}

func (m *repoMock) Create(ctx context.Context, req *model.ItemRequest) error {
	return m.createFn(ctx, req)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.ItemRequest, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error) {
	return m.listByRequestorFn(ctx, requestorID)
}
func (m *repoMock) ListOther(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error) {
	return m.listOtherFn(ctx, requestorID, limit, offset)
}

type userRepoMock struct{ users map[int64]*model.User }

func (m *userRepoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type itemRepoMock struct {
	byRequest map[int64][]model.Item
}

func (m *itemRepoMock) ListByRequestID(ctx context.Context, requestID int64) ([]model.Item, error) {
	return m.byRequest[requestID], nil
}
func (m *itemRepoMock) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	var out []model.Item
	for _, id := range requestIDs {
		out = append(out, m.byRequest[id]...)
	}
	return out, nil
}

func users() *userRepoMock {
	return &userRepoMock{users: map[int64]*model.User{
		1: {ID: 1, Name: "Olga"},
		2: {ID: 2, Name: "Boris"},
	}}
}

func reqID(v int64) *int64 { return &v }

func TestCreate_Validation(t *testing.T) {
	s := requestsvc.New(&repoMock{}, users(), &itemRepoMock{})
	ctx := context.Background()

	if _, err := s.Create(ctx, 99, "need a drill"); !errors.Is(err, requestsvc.ErrUserNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, err := s.Create(ctx, 1, "   "); !errors.Is(err, requestsvc.ErrBlankDesc) {
		t.Fatalf("blank description: got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	r := &repoMock{
		createFn: func(ctx context.Context, req *model.ItemRequest) error {
			req.ID = 5
			return nil
		},
	}
	s := requestsvc.New(r, users(), &itemRepoMock{})

	out, err := s.Create(context.Background(), 1, "need a drill")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ID != 5 || out.Description != "need a drill" {
		t.Fatalf("unexpected view: %+v", out)
	}
	if out.Created.IsZero() {
		t.Fatal("created must be set")
	}
	if len(out.Items) != 0 {
		t.Fatalf("fresh request cannot have answers: %+v", out.Items)
	}
}

func TestGetOwn_AttachesItems(t *testing.T) {
	now := time.Now()
	r := &repoMock{
		listByRequestorFn: func(ctx context.Context, requestorID int64) ([]model.ItemRequest, error) {
			return []model.ItemRequest{
				{ID: 2, Description: "need a ladder", RequestorID: 1, Created: now},
				{ID: 1, Description: "need a drill", RequestorID: 1, Created: now.Add(-time.Hour)},
			}, nil
		},
	}
	ir := &itemRepoMock{byRequest: map[int64][]model.Item{
		1: {{ID: 10, OwnerID: 2, Name: "Drill", RequestID: reqID(1)}},
	}}
	s := requestsvc.New(r, users(), ir)

	out, err := s.GetOwn(context.Background(), 1)
	if err != nil {
		t.Fatalf("getOwn: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d requests; want 2", len(out))
	}
	if len(out[0].Items) != 0 {
		t.Fatalf("request 2 has no answers: %+v", out[0].Items)
	}
	if len(out[1].Items) != 1 || out[1].Items[0].Name != "Drill" || out[1].Items[0].OwnerID != 2 {
		t.Fatalf("request 1 answers: %+v", out[1].Items)
	}
}

func TestGetAllOther_PageMath(t *testing.T) {
	var gotLimit, gotOffset int
	r := &repoMock{
		listOtherFn: func(ctx context.Context, requestorID int64, limit, offset int) ([]model.ItemRequest, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	s := requestsvc.New(r, users(), &itemRepoMock{})

	// from=25 size=10 lands on page 2 → offset 20
	if _, err := s.GetAllOther(context.Background(), 1, 25, 10); err != nil {
		t.Fatalf("getAllOther: %v", err)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("limit/offset = %d/%d; want 10/20", gotLimit, gotOffset)
	}
}

func TestGetByID(t *testing.T) {
	r := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.ItemRequest, error) {
			if id != 1 {
				return nil, sql.ErrNoRows
			}
			return &model.ItemRequest{ID: 1, Description: "need a drill", RequestorID: 1, Created: time.Now()}, nil
		},
	}
	ir := &itemRepoMock{byRequest: map[int64][]model.Item{
		1: {{ID: 10, OwnerID: 2, Name: "Drill", RequestID: reqID(1)}},
	}}
	s := requestsvc.New(r, users(), ir)
	ctx := context.Background()

	out, err := s.GetByID(ctx, 2, 1)
	if err != nil {
		t.Fatalf("getByID: %v", err)
	}
	if len(out.Items) != 1 {
		t.Fatalf("answers: %+v", out.Items)
	}

	if _, err := s.GetByID(ctx, 2, 99); !errors.Is(err, requestsvc.ErrRequestNotFound) {
		t.Fatalf("missing request: got %v", err)
	}
	if _, err := s.GetByID(ctx, 99, 1); !errors.Is(err, requestsvc.ErrUserNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
}
