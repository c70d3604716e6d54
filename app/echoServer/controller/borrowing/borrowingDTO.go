package borrowing

type CreateBorrowingReq struct {
	BookID             int64  `json:"book" validate:"required,gt=0"`
	BorrowDate         string `json:"borrow_date" validate:"omitempty,datetime=2006-01-02"`
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
}
