package book

import (
	"log/slog"
	"net/http"
	"strconv"

	booksvc "libraryservice/service/book"

	"libraryservice/app/echoServer/jwtx"
	"libraryservice/model"
	"libraryservice/policy"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func requesterRole(c echo.Context) policy.Role {
	if _, ok := c.Get("user_id").(int64); !ok {
		return policy.RoleAnonymous
	}
	return policy.RoleOf(jwtx.IsStaff(c))
}

// Create a book
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  BookReq  true  "Book payload"
// @Success      201  {object}  model.Book
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /books [post]
func (h *Controller) Create(c echo.Context) error {
	if !policy.Check(requesterRole(c), policy.BookCreate, false) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	b := &model.Book{
		Title:     req.Title,
		Author:    req.Author,
		Cover:     model.CoverType(req.Cover),
		Inventory: req.Inventory,
		DailyFee:  req.DailyFee,
	}
	if err := h.Svc.Create(c.Request().Context(), b); err != nil {
		h.Log.Error("book create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, b)
}

// PUT/PATCH /books/:id  (staff)
func (h *Controller) Update(c echo.Context) error {
	if !policy.Check(requesterRole(c), policy.BookUpdate, false) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	b := &model.Book{
		ID:        id,
		Title:     req.Title,
		Author:    req.Author,
		Cover:     model.CoverType(req.Cover),
		Inventory: req.Inventory,
		DailyFee:  req.DailyFee,
	}
	found, err := h.Svc.Update(c.Request().Context(), b)
	if err != nil {
		h.Log.Error("book update error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /books/:id  (staff)
func (h *Controller) Delete(c echo.Context) error {
	if !policy.Check(requesterRole(c), policy.BookDelete, false) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	found, err := h.Svc.Delete(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("book delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /books
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("book detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if row == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	return c.JSON(http.StatusOK, row)
}
