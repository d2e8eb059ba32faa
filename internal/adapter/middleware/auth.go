package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextAdminID is the echo context key holding the authenticated admin's id.
const ContextAdminID = "admin_id"

var errNotAdmin = errors.New("admin role required")

// AdminJWT accepts HS256/384/512 bearer tokens signed with secret whose
// "role" claim is "admin". The "sub" claim is exposed as ContextAdminID.
func AdminJWT(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid Authorization header"})
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrInvalidKeyType
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			role, _ := claims["role"].(string)
			if role != "admin" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": errNotAdmin.Error()})
			}
			sub, _ := claims.GetSubject()
			c.Set(ContextAdminID, sub)
			return next(c)
		}
	}
}

// AdminID returns the id set by AdminJWT, or "" when the route is unauthenticated.
func AdminID(c echo.Context) string {
	v, _ := c.Get(ContextAdminID).(string)
	return v
}
