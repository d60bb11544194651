package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

const minPasswordLength = 8

// dummyHash is compared against when the username is unknown so that the
// response time does not reveal which usernames exist.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// dashboardClaims is the payload of a dashboard bearer token.
type dashboardClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService implements dashboard login and bearer token handling.
type AuthService struct {
	repo      ports.DashboardUserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.DashboardUserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// CreateDashboardUser stores a new staff account with a bcrypt hash of password.
func (s *AuthService) CreateDashboardUser(ctx context.Context, username, password, fullName string) (*domain.DashboardUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.DashboardUser{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", created.Username).Uint("user_id", created.ID).Msg("dashboard user created")
	return created, nil
}

// EnsureDefaultUser creates the bootstrap account unless the username is taken.
func (s *AuthService) EnsureDefaultUser(ctx context.Context, username, password, fullName string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed default user: %w", err)
	}

	if _, err := s.CreateDashboardUser(ctx, username, password, fullName); err != nil && !errors.Is(err, domain.ErrDuplicateUsername) {
		return fmt.Errorf("seed default user: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a signed token. Unknown usernames,
// wrong passwords and inactive accounts all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.DashboardUser, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil || !user.IsActive {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.generateToken(user, now)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Msg("dashboard login")
	return token, user, nil
}

// ResolveToken maps a bearer token back to an active dashboard user. It
// returns nil, nil for malformed or expired tokens and for users that no
// longer exist or are inactive. An error is returned only when the user
// lookup itself fails.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.DashboardUser, error) {
	if token == "" {
		return nil, nil
	}

	claims := &dashboardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, nil
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}

	user, err := s.repo.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// ChangePassword replaces the password hash after verifying oldPassword.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, domain.ErrInvalidCredentials
		}
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return false, domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return false, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return false, fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Uint("user_id", user.ID).Msg("dashboard password changed")
	return true, nil
}

func (s *AuthService) generateToken(user *domain.DashboardUser, now time.Time) (string, error) {
	claims := dashboardClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
