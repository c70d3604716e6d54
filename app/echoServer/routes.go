package echoServer

import (
	"net/http"

	"libraryservice/app/echoServer/controller/auth"
	"libraryservice/app/echoServer/controller/book"
	"libraryservice/app/echoServer/controller/borrowing"
	"libraryservice/app/echoServer/jwtx"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Borrowing *borrowing.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/users/register", c.Auth.Register)
	e.POST("/users/login", c.Auth.Login)

	// Catalog reads need no credentials at all.
	e.GET("/books", c.Book.List)
	e.GET("/books/:id", c.Book.Detail)

	// Auth
	authGroup := e.Group("")
	authGroup.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id / is_staff extraction
	authGroup.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, staff, err := jwtx.ClaimsFromToken(ctx)
			if err != nil {
				rid := ctx.Response().Header().Get(echo.HeaderXRequestID)
				ctx.Logger().Warnf("[AUTH] claims rejected req_id=%s err=%v", rid, err)
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			ctx.Set("is_staff", staff)
			return next(ctx)
		}
	})

	// Users
	authGroup.GET("/users/me", c.Auth.Me)
	authGroup.PUT("/users/me", c.Auth.UpdateMe)

	// Books (staff writes)
	authGroup.POST("/books", c.Book.Create)
	authGroup.PUT("/books/:id", c.Book.Update)
	authGroup.PATCH("/books/:id", c.Book.Update)
	authGroup.DELETE("/books/:id", c.Book.Delete)

	// Borrowings
	authGroup.GET("/borrowings", c.Borrowing.List)
	authGroup.POST("/borrowings", c.Borrowing.Create)
	authGroup.GET("/borrowings/:id", c.Borrowing.Detail)
	authGroup.POST("/borrowings/:id/return", c.Borrowing.Return)
}
