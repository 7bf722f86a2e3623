package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

func newTestAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{
		JWTSecret:           "secret",
		TokenTTL:            time.Hour,
		BootstrapAdminEmail: "Admin@Entregadores67.com",
	}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "joao@example.com", "pass123", "João")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCourier {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestAuthService_Register_BootstrapAdmin(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), " admin@entregadores67.com ", "pass123", "Admin")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected bootstrap email to get admin role, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "joao@example.com", "pass123", ""); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "JOAO@example.com", "other", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "joao@example.com", "pass123", "João")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, err := svc.Login(ctx, "joao@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %s", user.ID)
	}

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != registered.ID {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
	if claims["email"] != "joao@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}
	if _, ok := claims["role"]; ok {
		t.Fatalf("role must not travel in the token")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "joao@example.com", "pass123", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, _, err := svc.Login(ctx, "joao@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Resolve_CreatesOnFirstSightAndKeepsRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, err := svc.Resolve(ctx, ports.Identity{Subject: "uid-1", Email: "maria@example.com", Name: "Maria"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.Role != domain.RoleCourier {
		t.Fatalf("expected default courier role, got %s", user.Role)
	}

	// A promotion must survive the next login.
	if _, err := repo.SetRoleByEmail(ctx, "maria@example.com", domain.RoleAdmin, time.Now()); err != nil {
		t.Fatalf("SetRoleByEmail returned error: %v", err)
	}
	user, err = svc.Resolve(ctx, ports.Identity{Subject: "uid-1", Email: "maria@example.com", Name: "Maria S."})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected stored role to be kept, got %s", user.Role)
	}
	if user.Name != "Maria S." {
		t.Fatalf("expected name to be refreshed, got %s", user.Name)
	}
}

func TestAuthService_Resolve_EmptySubject(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Resolve(context.Background(), ports.Identity{}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Promote(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "joao@example.com", "pass123", ""); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	courier := domain.Actor{ID: "c1", Role: domain.RoleCourier}
	if _, err := svc.Promote(ctx, "joao@example.com", courier); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	admin := domain.Actor{ID: "a1", Role: domain.RoleAdmin}
	user, err := svc.Promote(ctx, "joao@example.com", admin)
	if err != nil {
		t.Fatalf("Promote returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}

	if _, err := svc.Promote(ctx, "ghost@example.com", admin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
