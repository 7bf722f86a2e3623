package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// IdentityResolver maps a verified token to the stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, id ports.Identity) (*domain.User, error)
}

// Auth validates the JWT, resolves the caller against the profile store and
// injects the result into the context. The role always comes from the store.
func Auth(jwtSecret string, users IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			email, _ := claims["email"].(string)
			name, _ := claims["name"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			user, err := users.Resolve(c.Request().Context(), ports.Identity{Subject: sub, Email: email, Name: name})
			if err != nil {
				return err
			}

			c.Set("user_id", user.ID)
			c.Set("role", user.Role)
			c.Set("name", user.Name)
			c.Set("email", user.Email)
			c.Set("user", user)

			return next(c)
		}
	}
}
