package booksvc

import (
	"context"
	"errors"

	"libraryservice/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func validateBook(b *model.Book) error {
	if b.Title == "" || b.Author == "" {
		return errors.New("invalid payload")
	}
	if b.Cover != model.CoverHard && b.Cover != model.CoverSoft {
		return errors.New("invalid cover type")
	}
	if b.Inventory < 0 || b.DailyFee < 0 {
		return errors.New("invalid payload")
	}
	return nil
}

func (s *service) Create(ctx context.Context, b *model.Book) error {
	if err := validateBook(b); err != nil {
		return err
	}
	return s.r.Create(ctx, b)
}

func (s *service) Update(ctx context.Context, b *model.Book) (bool, error) {
	if err := validateBook(b); err != nil {
		return false, err
	}
	return s.r.Update(ctx, b)
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) { return s.r.Delete(ctx, id) }
func (s *service) List(ctx context.Context) ([]model.Book, error)     { return s.r.List(ctx) }
func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return s.r.Detail(ctx, id)
}
