package usersvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"shareit/model"
	userrepo "shareit/repository/user"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
	ErrBlankName  = errors.New("name must not be blank")
	ErrBlankEmail = errors.New("email must not be blank")
)

type Repo = userrepo.Repo

type Service interface {
	Create(ctx context.Context, name, email string) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)

	// Patch applies only the fields present; blank values are rejected.
	Patch(ctx context.Context, id int64, p model.UserPatch) (*model.User, error)

	// Delete is an unconditional hard delete.
	Delete(ctx context.Context, id int64) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, name, email string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrBlankEmail
	}

	u := &model.User{Name: name, Email: email}
	if err := s.r.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetAll(ctx context.Context) ([]model.User, error) {
	return s.r.List(ctx)
}

func (s *service) Patch(ctx context.Context, id int64, p model.UserPatch) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, ErrBlankName
		}
		u.Name = *p.Name
	}
	if p.Email != nil {
		if strings.TrimSpace(*p.Email) == "" {
			return nil, ErrBlankEmail
		}
		u.Email = *p.Email
	}
	if p.Name == nil && p.Email == nil {
		return u, nil
	}

	if err := s.r.Update(ctx, id, p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
