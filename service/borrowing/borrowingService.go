package borrowingsvc

import (
	"context"
	"database/sql"
	"errors"

	"libraryservice/model"
	"libraryservice/policy"
	borrowingrepo "libraryservice/repository/borrowing"
)

// errors used by controllers

type ErrCode string

const (
	ErrOutOfStock      ErrCode = "OUT_OF_STOCK"
	ErrAlreadyReturned ErrCode = "ALREADY_RETURNED"
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrForbidden       ErrCode = "FORBIDDEN"
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

// Requester identifies the authenticated caller of an operation.
type Requester struct {
	UserID  int64
	IsStaff bool
}

// Filter = repository shape
type Filter = borrowingrepo.Filter

type Repo interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	BookInventoryForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	DecrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error
	IncrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error

	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrowing) error
	ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error)
	SetReturned(ctx context.Context, tx *sql.Tx, id int64, date model.Date) error

	List(ctx context.Context, f Filter) ([]model.Borrowing, error)
	Detail(ctx context.Context, id int64) (*model.BorrowingDetail, error)
}

type Service interface {
	// Create opens a borrowing: checks stock under a row lock, inserts the
	// record and decrements inventory in one transaction.
	Create(ctx context.Context, requester Requester, bookID int64, expected model.Date, borrow *model.Date) (*model.Borrowing, error)

	// Return closes an open borrowing and puts the copy back in stock.
	Return(ctx context.Context, borrowingID int64) (*model.BorrowingDetail, error)

	// List applies the visibility rule: non-staff only ever see their own.
	List(ctx context.Context, requester Requester, f Filter) ([]model.Borrowing, error)

	// Detail returns one borrowing if the requester is staff or the owner.
	Detail(ctx context.Context, requester Requester, id int64) (*model.BorrowingDetail, error)
}

// ----- Service implementation -----

type service struct {
	r Repo
}

func New(r Repo) Service {
	return &service{r: r}
}

func (s *service) Create(ctx context.Context, requester Requester, bookID int64, expected model.Date, borrow *model.Date) (*model.Borrowing, error) {
	b := &model.Borrowing{
		BorrowDate:         model.Today(),
		ExpectedReturnDate: expected,
		BookID:             bookID,
		UserID:             requester.UserID,
	}
	if borrow != nil {
		b.BorrowDate = *borrow
	}

	err := s.r.InTx(ctx, func(tx *sql.Tx) error {
		inv, err := s.r.BookInventoryForUpdate(ctx, tx, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrBookNotFound)
		}
		if err != nil {
			return err
		}
		if inv == 0 {
			return makeErr(ErrOutOfStock)
		}
		if err := s.r.Insert(ctx, tx, b); err != nil {
			return err
		}
		return s.r.DecrementInventory(ctx, tx, bookID)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Return(ctx context.Context, borrowingID int64) (*model.BorrowingDetail, error) {
	err := s.r.InTx(ctx, func(tx *sql.Tx) error {
		b, err := s.r.ForUpdate(ctx, tx, borrowingID)
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		if err != nil {
			return err
		}
		if !b.IsActive() {
			return makeErr(ErrAlreadyReturned)
		}
		if err := s.r.SetReturned(ctx, tx, borrowingID, model.Today()); err != nil {
			return err
		}
		return s.r.IncrementInventory(ctx, tx, b.BookID)
	})
	if err != nil {
		return nil, err
	}
	return s.r.Detail(ctx, borrowingID)
}

func (s *service) List(ctx context.Context, requester Requester, f Filter) ([]model.Borrowing, error) {
	if !requester.IsStaff {
		// Non-staff are pinned to their own borrowings no matter what
		// filters they asked for.
		f.UserIDs = []int64{requester.UserID}
	}
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, requester Requester, id int64) (*model.BorrowingDetail, error) {
	d, err := s.r.Detail(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, makeErr(ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	role := policy.RoleOf(requester.IsStaff)
	if !policy.Check(role, policy.BorrowingGet, d.UserID == requester.UserID) {
		return nil, makeErr(ErrForbidden)
	}
	return d, nil
}
