// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"

	"libraryservice/model"
	booksvc "libraryservice/service/book"
)

type repoMock struct {
	createFn func(ctx context.Context, b *model.Book) error
	updateFn func(ctx context.Context, b *model.Book) (bool, error)
	deleteFn func(ctx context.Context, id int64) (bool, error)
	listFn   func(ctx context.Context) ([]model.Book, error)
	detailFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) Update(ctx context.Context, b *model.Book) (bool, error) {
	return m.updateFn(ctx, b)
}
func (m *repoMock) Delete(ctx context.Context, id int64) (bool, error) { return m.deleteFn(ctx, id) }
func (m *repoMock) List(ctx context.Context) ([]model.Book, error)     { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}

func validBook() *model.Book {
	return &model.Book{
		Title:     "Clean Code",
		Author:    "Robert Martin",
		Cover:     model.CoverHard,
		Inventory: 10,
		DailyFee:  9.99,
	}
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{})

	b := validBook()
	b.Title = ""
	if err := s.Create(context.Background(), b); err == nil {
		t.Fatal("expected error for empty title")
	}

	b = validBook()
	b.Author = ""
	if err := s.Create(context.Background(), b); err == nil {
		t.Fatal("expected error for empty author")
	}

	b = validBook()
	b.Cover = "Paper"
	if err := s.Create(context.Background(), b); err == nil {
		t.Fatal("expected error for bad cover")
	}

	b = validBook()
	b.Inventory = -1
	if err := s.Create(context.Background(), b); err == nil {
		t.Fatal("expected error for negative inventory")
	}

	b = validBook()
	b.DailyFee = -1
	if err := s.Create(context.Background(), b); err == nil {
		t.Fatal("expected error for negative fee")
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			if b.Title != "Clean Code" || b.Cover != model.CoverHard {
				return errors.New("bad args")
			}
			b.ID = 42
			return nil
		},
	}
	s := booksvc.New(m)

	b := validBook()
	if err := s.Create(context.Background(), b); err != nil || b.ID != 42 {
		t.Fatalf("got id=%v err=%v; want 42 nil", b.ID, err)
	}
}

func TestUpdate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{})
	b := validBook()
	b.Cover = ""
	if _, err := s.Update(context.Background(), b); err == nil {
		t.Fatal("expected error for missing cover")
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		updateFn: func(ctx context.Context, b *model.Book) (bool, error) { return true, nil },
		deleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
		listFn:   func(ctx context.Context) ([]model.Book, error) { return nil, nil },
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) { return &model.Book{}, nil },
	}
	s := booksvc.New(m)

	if found, err := s.Update(context.Background(), validBook()); err != nil || !found {
		t.Fatalf("Update got %v %v; want true nil", found, err)
	}
	if found, err := s.Delete(context.Background(), 99); err != nil || found {
		t.Fatalf("Delete got %v %v; want false nil", found, err)
	}
	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.Detail(context.Background(), 99); err != nil {
		t.Fatalf("Detail error: %v", err)
	}
}
