package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/entregadores67/dispatch/internal/api"
	"github.com/entregadores67/dispatch/internal/api/handler"
	"github.com/entregadores67/dispatch/internal/core/domain"
)

var (
	admin   = domain.Actor{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	courier = domain.Actor{ID: "courier-a", Name: "Ana", Email: "ana@example.com", Role: domain.RoleCourier}
	rival   = domain.Actor{ID: "courier-b", Name: "Bruno", Email: "bruno@example.com", Role: domain.RoleCourier}
)

// newServer returns an Echo instance wired like the real router: validator,
// error handler, and a header-driven stand-in for the Auth middleware.
func newServer() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

// asActor mimics the Auth middleware for the actor named in X-Test-User.
func asActor(actors ...domain.Actor) echo.MiddlewareFunc {
	byID := make(map[string]domain.Actor, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if a, ok := byID[c.Request().Header.Get("X-Test-User")]; ok {
				c.Set(handler.CtxUserID, a.ID)
				c.Set(handler.CtxRole, a.Role)
				c.Set(handler.CtxName, a.Name)
				c.Set(handler.CtxEmail, a.Email)
				c.Set(handler.CtxUser, &domain.User{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role})
			}
			return next(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, path string, actor *domain.Actor, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req.Header.Set("X-Test-User", actor.ID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectReason(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	resp := decode(t, rec)
	if resp["success"] != false {
		t.Fatalf("expected success=false, got %v", resp["success"])
	}
	if resp["reason"] != want {
		t.Fatalf("expected reason %q, got %v (%v)", want, resp["reason"], resp["message"])
	}
}
