package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

// AuthConfig controls token issuing.
type AuthConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

// AuthService issues and verifies HS256 session tokens.
type AuthService struct {
	base
	users *UserService
	cfg   AuthConfig
	now   func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(b base, users *UserService, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &AuthService{base: b, users: users, cfg: cfg, now: time.Now}
}

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login checks credentials and issues a token whose subject is the user id.
func (s *AuthService) Login(ctx context.Context, login, password string) (*Session, error) {
	if login == "" || password == "" {
		return nil, errors.InvalidInput("login", "Missing required fields: login, password")
	}
	u, err := s.users.Authenticate(ctx, login, password)
	if err != nil {
		s.log.Warn().Str("login", login).Msg("Login rejected")
		return nil, err
	}

	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to sign token")
	}

	user, err := s.users.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", u.ID).Msg("User logged in")
	return &Session{Token: signed, ExpiresAt: expires.UTC(), User: user}, nil
}

// Verify parses a token and returns the user id it was issued to.
func (s *AuthService) Verify(raw string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid or expired token")
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return 0, errors.Unauthorized("Invalid or expired token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid or expired token")
	}
	return id, nil
}

// CurrentUser returns the user the token belongs to, with their person.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, errors.Unauthorized("User no longer exists")
	}
	return u, err
}

// CurrentUserTasks lists the tasks owned by or assigned to the current user's
// person. A user without a person has no tasks.
func (s *AuthService) CurrentUserTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.PersonID == nil {
		return []*domain.Task{}, nil
	}
	tasks, err := s.store.Tasks().ListForPerson(ctx, *u.PersonID)
	if err != nil {
		return nil, err
	}
	return tasks, hydrateTasks(ctx, s.store, tasks)
}
