// service/borrowing/borrowing_service_test.go
package borrowingsvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"libraryservice/model"
	borrowingsvc "libraryservice/service/borrowing"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	inventoryFn   func(bookID int64) (int64, error)
	insertFn      func(b *model.Borrowing) error
	forUpdateFn   func(id int64) (*model.Borrowing, error)
	setReturnedFn func(id int64, date model.Date) error
	listFn        func(f borrowingsvc.Filter) ([]model.Borrowing, error)
	detailFn      func(id int64) (*model.BorrowingDetail, error)

	decrements []int64
	increments []int64
	committed  bool
	rolledBack bool
}

var _ borrowingsvc.Repo = (*repoMock)(nil)

func (m *repoMock) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := fn(nil); err != nil {
		m.rolledBack = true
		return err
	}
	m.committed = true
	return nil
}

func (m *repoMock) BookInventoryForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
	return m.inventoryFn(bookID)
}

func (m *repoMock) DecrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error {
	m.decrements = append(m.decrements, bookID)
	return nil
}

func (m *repoMock) IncrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error {
	m.increments = append(m.increments, bookID)
	return nil
}

func (m *repoMock) Insert(ctx context.Context, tx *sql.Tx, b *model.Borrowing) error {
	if m.insertFn == nil {
		b.ID = 1
		return nil
	}
	return m.insertFn(b)
}

func (m *repoMock) ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error) {
	return m.forUpdateFn(id)
}

func (m *repoMock) SetReturned(ctx context.Context, tx *sql.Tx, id int64, date model.Date) error {
	if m.setReturnedFn == nil {
		return nil
	}
	return m.setReturnedFn(id, date)
}

func (m *repoMock) List(ctx context.Context, f borrowingsvc.Filter) ([]model.Borrowing, error) {
	return m.listFn(f)
}

func (m *repoMock) Detail(ctx context.Context, id int64) (*model.BorrowingDetail, error) {
	return m.detailFn(id)
}

var member = borrowingsvc.Requester{UserID: 7, IsStaff: false}
var staff = borrowingsvc.Requester{UserID: 1, IsStaff: true}

func expected() model.Date { return model.NewDate(2026, 9, 30) }

// --- Create ---

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		inventoryFn: func(bookID int64) (int64, error) { return 3, nil },
		insertFn: func(b *model.Borrowing) error {
			b.ID = 11
			return nil
		},
	}
	svc := borrowingsvc.New(m)

	out, err := svc.Create(context.Background(), member, 5, expected(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(11), out.ID)
	require.Equal(t, int64(5), out.BookID)
	require.Equal(t, member.UserID, out.UserID)
	require.Equal(t, model.Today(), out.BorrowDate)
	require.True(t, out.IsActive())
	require.Equal(t, []int64{5}, m.decrements)
	require.True(t, m.committed)
}

func TestCreate_BorrowDateOverride(t *testing.T) {
	m := &repoMock{
		inventoryFn: func(int64) (int64, error) { return 1, nil },
	}
	svc := borrowingsvc.New(m)

	d := model.NewDate(2026, 8, 1)
	out, err := svc.Create(context.Background(), member, 5, expected(), &d)
	require.NoError(t, err)
	require.Equal(t, d, out.BorrowDate)
}

func TestCreate_OutOfStock(t *testing.T) {
	inserted := false
	m := &repoMock{
		inventoryFn: func(int64) (int64, error) { return 0, nil },
		insertFn: func(*model.Borrowing) error {
			inserted = true
			return nil
		},
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Create(context.Background(), member, 5, expected(), nil)
	require.Error(t, err)
	require.Equal(t, borrowingsvc.ErrOutOfStock, borrowingsvc.Code(err))
	require.False(t, inserted)
	require.Empty(t, m.decrements)
	require.True(t, m.rolledBack)
}

func TestCreate_BookNotFound(t *testing.T) {
	m := &repoMock{
		inventoryFn: func(int64) (int64, error) { return 0, sql.ErrNoRows },
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Create(context.Background(), member, 99, expected(), nil)
	require.Equal(t, borrowingsvc.ErrBookNotFound, borrowingsvc.Code(err))
}

func TestCreate_InsertFailureRollsBack(t *testing.T) {
	m := &repoMock{
		inventoryFn: func(int64) (int64, error) { return 2, nil },
		insertFn:    func(*model.Borrowing) error { return errors.New("db down") },
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Create(context.Background(), member, 5, expected(), nil)
	require.Error(t, err)
	require.Equal(t, borrowingsvc.ErrCode(""), borrowingsvc.Code(err))
	require.True(t, m.rolledBack)
	require.Empty(t, m.decrements)
}

// --- Return ---

func openBorrowing(id, bookID int64) *model.Borrowing {
	return &model.Borrowing{
		ID:                 id,
		BorrowDate:         model.NewDate(2026, 8, 1),
		ExpectedReturnDate: model.NewDate(2026, 9, 1),
		BookID:             bookID,
		UserID:             7,
	}
}

func TestReturn_Success(t *testing.T) {
	var returnedDate model.Date
	m := &repoMock{
		forUpdateFn: func(id int64) (*model.Borrowing, error) { return openBorrowing(id, 5), nil },
		setReturnedFn: func(id int64, date model.Date) error {
			returnedDate = date
			return nil
		},
		detailFn: func(id int64) (*model.BorrowingDetail, error) {
			d := model.Today()
			return &model.BorrowingDetail{
				ID:                 id,
				ActualReturnDate:   &d,
				Book:               model.Book{ID: 5},
				UserID:             7,
				BorrowDate:         model.NewDate(2026, 8, 1),
				ExpectedReturnDate: model.NewDate(2026, 9, 1),
			}, nil
		},
	}
	svc := borrowingsvc.New(m)

	out, err := svc.Return(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, model.Today(), returnedDate)
	require.Equal(t, []int64{5}, m.increments)
	require.False(t, out.IsActive())
	require.True(t, m.committed)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	m := &repoMock{
		forUpdateFn: func(id int64) (*model.Borrowing, error) {
			b := openBorrowing(id, 5)
			d := model.NewDate(2026, 8, 15)
			b.ActualReturnDate = &d
			return b, nil
		},
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Return(context.Background(), 11)
	require.Equal(t, borrowingsvc.ErrAlreadyReturned, borrowingsvc.Code(err))
	require.Empty(t, m.increments)
	require.True(t, m.rolledBack)
}

func TestReturn_NotFound(t *testing.T) {
	m := &repoMock{
		forUpdateFn: func(int64) (*model.Borrowing, error) { return nil, sql.ErrNoRows },
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Return(context.Background(), 404)
	require.Equal(t, borrowingsvc.ErrNotFound, borrowingsvc.Code(err))
}

// --- List visibility ---

func TestList_NonStaffPinnedToOwnRows(t *testing.T) {
	var got borrowingsvc.Filter
	m := &repoMock{
		listFn: func(f borrowingsvc.Filter) ([]model.Borrowing, error) {
			got = f
			return nil, nil
		},
	}
	svc := borrowingsvc.New(m)

	// Member asks for someone else's borrowings; the filter is overridden.
	_, err := svc.List(context.Background(), member, borrowingsvc.Filter{UserIDs: []int64{1, 2, 3}})
	require.NoError(t, err)
	require.Equal(t, []int64{member.UserID}, got.UserIDs)
}

func TestList_StaffFiltersPreserved(t *testing.T) {
	var got borrowingsvc.Filter
	m := &repoMock{
		listFn: func(f borrowingsvc.Filter) ([]model.Borrowing, error) {
			got = f
			return nil, nil
		},
	}
	svc := borrowingsvc.New(m)

	active := true
	_, err := svc.List(context.Background(), staff, borrowingsvc.Filter{IsActive: &active, UserIDs: []int64{2, 3}})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 3}, got.UserIDs)
	require.NotNil(t, got.IsActive)
	require.True(t, *got.IsActive)
}

// --- Detail visibility ---

func detailOwnedBy(userID int64) func(int64) (*model.BorrowingDetail, error) {
	return func(id int64) (*model.BorrowingDetail, error) {
		return &model.BorrowingDetail{ID: id, UserID: userID, Book: model.Book{ID: 5}}, nil
	}
}

func TestDetail_Owner(t *testing.T) {
	m := &repoMock{detailFn: detailOwnedBy(member.UserID)}
	svc := borrowingsvc.New(m)

	out, err := svc.Detail(context.Background(), member, 11)
	require.NoError(t, err)
	require.Equal(t, member.UserID, out.UserID)
}

func TestDetail_ForbiddenForOtherMember(t *testing.T) {
	m := &repoMock{detailFn: detailOwnedBy(42)}
	svc := borrowingsvc.New(m)

	_, err := svc.Detail(context.Background(), member, 11)
	require.Equal(t, borrowingsvc.ErrForbidden, borrowingsvc.Code(err))
}

func TestDetail_StaffSeesAll(t *testing.T) {
	m := &repoMock{detailFn: detailOwnedBy(42)}
	svc := borrowingsvc.New(m)

	out, err := svc.Detail(context.Background(), staff, 11)
	require.NoError(t, err)
	require.Equal(t, int64(42), out.UserID)
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		detailFn: func(int64) (*model.BorrowingDetail, error) { return nil, sql.ErrNoRows },
	}
	svc := borrowingsvc.New(m)

	_, err := svc.Detail(context.Background(), staff, 11)
	require.Equal(t, borrowingsvc.ErrNotFound, borrowingsvc.Code(err))
}
