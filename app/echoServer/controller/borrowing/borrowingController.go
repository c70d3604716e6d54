package borrowing

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	bs "libraryservice/service/borrowing"

	"libraryservice/app/echoServer/jwtx"
	"libraryservice/model"
	"libraryservice/policy"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func requester(c echo.Context) bs.Requester {
	return bs.Requester{UserID: jwtx.UserID(c), IsStaff: jwtx.IsStaff(c)}
}

// Create a borrowing
// @Summary      Borrow a book
// @Tags         borrowings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CreateBorrowingReq  true  "Borrowing payload"
// @Success      201  {object}  model.Borrowing
// @Failure      400  {object}  map[string]any "out of stock"
// @Failure      404  {object}  map[string]any
// @Router       /borrowings [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBorrowingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	expected, err := model.ParseDate(req.ExpectedReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid expected_return_date"})
	}
	var borrow *model.Date
	if req.BorrowDate != "" {
		d, err := model.ParseDate(req.BorrowDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid borrow_date"})
		}
		borrow = &d
	}

	out, err := h.Svc.Create(c.Request().Context(), requester(c), req.BookID, expected, borrow)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrOutOfStock:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unfortunately, this book is out of stock."})
		case bs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("borrowing create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// POST /borrowings/:id/return  (staff)
func (h *Controller) Return(c echo.Context) error {
	if !policy.Check(policy.RoleOf(jwtx.IsStaff(c)), policy.BorrowingReturn, false) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrAlreadyReturned:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Item has already been returned"})
		case bs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrowing not found"})
		default:
			h.Log.Error("borrowing return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// GET /borrowings?is_active=true&user_id=1,2
func (h *Controller) List(c echo.Context) error {
	var f bs.Filter

	if raw := c.QueryParam("is_active"); raw != "" {
		active := strings.EqualFold(raw, "true")
		f.IsActive = &active
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		ids, err := paramsToInts(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user_id"})
		}
		f.UserIDs = ids
	}

	rows, err := h.Svc.List(c.Request().Context(), requester(c), f)
	if err != nil {
		h.Log.Error("borrowing list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /borrowings/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	out, err := h.Svc.Detail(c.Request().Context(), requester(c), id)
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case bs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "borrowing not found"})
		default:
			h.Log.Error("borrowing detail", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, out)
}

// paramsToInts converts a comma-separated id list to int64s.
func paramsToInts(qs string) ([]int64, error) {
	parts := strings.Split(qs, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
