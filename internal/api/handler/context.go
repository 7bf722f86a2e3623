package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

// Context keys written by the Auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxName   = "name"
	CtxEmail  = "email"
	CtxUser   = "user"
)

// ctxActor extracts the caller resolved by the Auth middleware and performs a
// fast-fail check before any service call: user id and role must both be
// present (their presence proves the middleware ran).
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get(CtxUserID).(string)
	role, _ := c.Get(CtxRole).(string)
	if id == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	name, _ := c.Get(CtxName).(string)
	email, _ := c.Get(CtxEmail).(string)
	return domain.Actor{ID: id, Name: name, Email: email, Role: role}, nil
}

// ctxUser returns the stored profile the Auth middleware resolved.
func ctxUser(c echo.Context) (*domain.User, error) {
	u, ok := c.Get(CtxUser).(*domain.User)
	if !ok || u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	return u, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
