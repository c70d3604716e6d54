// model/borrowing.go
package model

import "encoding/json"

type Borrowing struct {
	ID                 int64 `json:"id"`
	BorrowDate         Date  `json:"borrow_date"`
	ExpectedReturnDate Date  `json:"expected_return_date"`
	ActualReturnDate   *Date `json:"actual_return_date"`
	BookID             int64 `json:"book"`
	UserID             int64 `json:"user_id"`
}

// IsActive reports whether the borrowing is still open.
// Derived from ActualReturnDate, never stored.
func (b Borrowing) IsActive() bool { return b.ActualReturnDate == nil }

func (b Borrowing) MarshalJSON() ([]byte, error) {
	type alias Borrowing
	return json.Marshal(struct {
		alias
		IsActive bool `json:"is_active"`
	}{alias(b), b.IsActive()})
}

// BorrowingDetail is the retrieve shape: the book reference expanded
// into the full record.
type BorrowingDetail struct {
	ID                 int64 `json:"id"`
	BorrowDate         Date  `json:"borrow_date"`
	ExpectedReturnDate Date  `json:"expected_return_date"`
	ActualReturnDate   *Date `json:"actual_return_date"`
	Book               Book  `json:"book"`
	UserID             int64 `json:"user_id"`
}

func (b BorrowingDetail) IsActive() bool { return b.ActualReturnDate == nil }

func (b BorrowingDetail) MarshalJSON() ([]byte, error) {
	type alias BorrowingDetail
	return json.Marshal(struct {
		alias
		IsActive bool `json:"is_active"`
	}{alias(b), b.IsActive()})
}
