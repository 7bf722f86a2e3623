package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/entregadores67/dispatch/internal/core/domain"
	"github.com/entregadores67/dispatch/internal/core/ports"
)

// AuthService implements registration, login and user resolution.
type AuthService struct {
	repo           ports.UserRepository
	jwtSecret      string
	tokenTTL       time.Duration
	bootstrapAdmin string
	logger         zerolog.Logger
	now            func() time.Time
}

// AuthConfig groups the token and bootstrap settings of AuthService.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BootstrapAdminEmail gets role admin the first time it is seen.
	BootstrapAdminEmail string
}

func NewAuthService(repo ports.UserRepository, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:           repo,
		jwtSecret:      cfg.JWTSecret,
		tokenTTL:       cfg.TokenTTL,
		bootstrapAdmin: strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail)),
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         s.initialRole(email),
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLogin:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if user.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Resolve returns the stored user for a verified token subject, creating the
// record on first sight and refreshing its last-login timestamp.
func (s *AuthService) Resolve(ctx context.Context, id ports.Identity) (*domain.User, error) {
	if id.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	now := s.now()
	user, err := s.repo.Upsert(ctx, &domain.User{
		ID:        id.Subject,
		Email:     email,
		Name:      id.Name,
		Role:      s.initialRole(email),
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// Promote makes the user with the given email an admin.
func (s *AuthService) Promote(ctx context.Context, email string, actor domain.Actor) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("promote user: %w", domain.ErrForbidden)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.repo.SetRoleByEmail(ctx, email, domain.RoleAdmin, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("promote user: %w", err)
	}
	s.logger.Info().Str("user_id", user.ID).Str("actor", actor.ID).Msg("user promoted to admin")
	return user, nil
}

func (s *AuthService) initialRole(email string) string {
	if s.bootstrapAdmin != "" && email == s.bootstrapAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleCourier
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"name":  user.Name,
		"iat":   s.now().Unix(),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
