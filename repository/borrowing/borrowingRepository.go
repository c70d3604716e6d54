// repository/borrowing/repo.go
package borrowingrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"libraryservice/model"
)

// Filter narrows List results. A nil IsActive means both open and closed.
type Filter struct {
	IsActive *bool
	UserIDs  []int64
}

type Repo interface {
	// InTx runs fn inside a single transaction: commit on nil error,
	// rollback otherwise.
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Books
	BookInventoryForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	DecrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error
	IncrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error

	// Borrowings
	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrowing) error
	ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error)
	SetReturned(ctx context.Context, tx *sql.Tx, id int64, date model.Date) error

	List(ctx context.Context, f Filter) ([]model.Borrowing, error)
	Detail(ctx context.Context, id int64) (*model.BorrowingDetail, error)
}

type repo struct {
	db *sql.DB
}

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Books

func (r *repo) BookInventoryForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
	// Row lock serializes concurrent check-and-decrement on the same book.
	const q = `
				SELECT inventory
				FROM books
				WHERE id = $1
				FOR UPDATE`
	var inv int64
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&inv)
	return inv, err
}

func (r *repo) DecrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error {
	// Guard: never decrements below zero.
	const q = `
			UPDATE books
			SET inventory = inventory - 1
			WHERE id = $1
			AND inventory > 0`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return errors.New("inventory exhausted")
	}
	return nil
}

func (r *repo) IncrementInventory(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET inventory = inventory + 1
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}

// Borrowings

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Borrowing) error {
	const q = `
		INSERT INTO borrowings (borrow_date, expected_return_date, book_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return tx.QueryRowContext(ctx, q, b.BorrowDate, b.ExpectedReturnDate, b.BookID, b.UserID).Scan(&b.ID)
}

func (r *repo) ForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrowing, error) {
	const q = `
		SELECT id, borrow_date, expected_return_date, actual_return_date, book_id, user_id
		FROM borrowings
		WHERE id = $1
		FOR UPDATE`
	b := &model.Borrowing{}
	var art sql.NullTime
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.BorrowDate, &b.ExpectedReturnDate, &art, &b.BookID, &b.UserID,
	)
	if err != nil {
		return nil, err
	}
	setReturnDate(b, art)
	return b, nil
}

func (r *repo) SetReturned(ctx context.Context, tx *sql.Tx, id int64, date model.Date) error {
	const q = `
		UPDATE borrowings
		SET actual_return_date = $2
		WHERE id = $1
		AND actual_return_date IS NULL`
	res, err := tx.ExecContext(ctx, q, id, date)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return errors.New("borrowing already closed")
	}
	return nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.Borrowing, error) {
	q := `
		SELECT id, borrow_date, expected_return_date, actual_return_date, book_id, user_id
		FROM borrowings`

	var conds []string
	var args []any

	if f.IsActive != nil {
		if *f.IsActive {
			conds = append(conds, "actual_return_date IS NULL")
		} else {
			conds = append(conds, "actual_return_date IS NOT NULL")
		}
	}
	if len(f.UserIDs) > 0 {
		ph := make([]string, len(f.UserIDs))
		for i, id := range f.UserIDs {
			args = append(args, id)
			ph[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, "user_id IN ("+strings.Join(ph, ",")+")")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrowing
	for rows.Next() {
		var b model.Borrowing
		var art sql.NullTime
		if err := rows.Scan(
			&b.ID, &b.BorrowDate, &b.ExpectedReturnDate, &art, &b.BookID, &b.UserID,
		); err != nil {
			return nil, err
		}
		setReturnDate(&b, art)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.BorrowingDetail, error) {
	const q = `
			SELECT
			br.id                   AS id,
			br.borrow_date          AS borrow_date,
			br.expected_return_date AS expected_return_date,
			br.actual_return_date   AS actual_return_date,
			br.user_id              AS user_id,
			b.id, b.title, b.author, b.cover, b.inventory, b.daily_fee
			FROM borrowings br
			JOIN books b ON b.id = br.book_id
			WHERE br.id = $1`
	d := &model.BorrowingDetail{}
	var art sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.BorrowDate, &d.ExpectedReturnDate, &art, &d.UserID,
		&d.Book.ID, &d.Book.Title, &d.Book.Author, &d.Book.Cover, &d.Book.Inventory, &d.Book.DailyFee,
	)
	if err != nil {
		return nil, err
	}
	if art.Valid {
		v := art.Time
		dt := model.NewDate(v.Year(), v.Month(), v.Day())
		d.ActualReturnDate = &dt
	}
	return d, nil
}

func setReturnDate(b *model.Borrowing, art sql.NullTime) {
	if art.Valid {
		v := art.Time
		d := model.NewDate(v.Year(), v.Month(), v.Day())
		b.ActualReturnDate = &d
	}
}
