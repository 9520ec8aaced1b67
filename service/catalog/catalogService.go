package catalogsvc

import (
	"context"
	"errors"

	"github.com/krishaprecyll/CampusSHARE/model"
)

var ErrNotFound = errors.New("item not found")

type Repo interface {
	ListAvailable(ctx context.Context, category string) ([]model.Item, error)
	ByID(ctx context.Context, id string) (*model.Item, error)
}

type Service interface {
	List(ctx context.Context, category string) ([]model.Item, error)
	Detail(ctx context.Context, id string) (*model.Item, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, category string) ([]model.Item, error) {
	return s.r.ListAvailable(ctx, category)
}

func (s *service) Detail(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}
