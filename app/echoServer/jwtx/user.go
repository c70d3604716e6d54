// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's id set by the claims middleware.
func UserID(c echo.Context) int64 {
	v, _ := c.Get("user_id").(int64)
	return v
}

// IsStaff reports whether the authenticated user carries the staff flag.
func IsStaff(c echo.Context) bool {
	v, _ := c.Get("is_staff").(bool)
	return v
}

// ClaimsFromToken extracts sub and is_staff from the parsed token that
// echo-jwt stores in the context.
func ClaimsFromToken(c echo.Context) (userID int64, isStaff bool, err error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, false, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, errors.New("invalid jwt claims")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, false, errors.New("sub missing in claims")
	}
	staff, _ := claims["is_staff"].(bool)
	return int64(sub), staff, nil
}
