package service

import (
	"context"
	stderrors "errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
	"github.com/pesio-ai/be-lit-backoffice/internal/events"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository"
)

const minPasswordLength = 8

// UserService handles login accounts.
type UserService struct {
	base
	cost int
}

// NewUserService creates a new user service.
func NewUserService(b base) *UserService {
	return &UserService{base: b, cost: bcrypt.DefaultCost}
}

// UserInput is the body of a user create or update. Username is derived from
// the email or name when omitted on create.
type UserInput struct {
	Username Field[string] `json:"username"`
	Email    Field[string] `json:"email"`
	Name     Field[string] `json:"name"`
	Password Field[string] `json:"password"`
	PersonID Field[int64]  `json:"personId"`
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	return users, hydrateUsers(ctx, s.store, users)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, hydrateUsers(ctx, s.store, []*domain.User{u})
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := s.validate(ctx, in, true); err != nil {
		return nil, err
	}

	u := &domain.User{}
	if err := s.apply(u, in); err != nil {
		return nil, err
	}
	if u.Username == "" {
		u.Username = domain.DeriveUsername(u.Email, deref(u.Name))
	}
	if u.Username == "" {
		return nil, errors.InvalidInput("username", "Missing required fields: username")
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", u.ID).
		Str("username", u.Username).
		Msg("User created")
	s.publish(ctx, "user", events.ActionCreated, u.ID, nil)

	return s.Get(ctx, u.ID)
}

func (s *UserService) Update(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}
	if err := s.apply(u, in); err != nil {
		return nil, err
	}

	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("user_id", u.ID).
		Bool("password_changed", in.Password.Present()).
		Msg("User updated")
	s.publish(ctx, "user", events.ActionUpdated, u.ID, nil)

	return s.Get(ctx, u.ID)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("User deleted")
	s.publish(ctx, "user", events.ActionDeleted, id, nil)
	return nil
}

// Authenticate resolves login (username or email) and checks password.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	u, err := s.store.Users().GetByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if stderrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to verify password")
	}
	return u, nil
}

func (s *UserService) validate(ctx context.Context, in UserInput, creating bool) error {
	var m missing
	need(&m, "email", in.Email, creating)
	need(&m, "password", in.Password, creating)
	if in.Username.Set {
		need(&m, "username", in.Username, false)
	}
	if err := m.err(); err != nil {
		return err
	}

	if in.Email.Present() && !domain.ValidEmail(trimmed(in.Email)) {
		return errors.InvalidInput("email", "Invalid email format")
	}
	if in.Password.Present() && len(in.Password.Value) < minPasswordLength {
		return errors.InvalidInput("password", "Password must be at least 8 characters")
	}
	if in.PersonID.Present() {
		if _, err := exists(ctx, "personId", s.store.People().GetByID, in.PersonID.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *UserService) apply(u *domain.User, in UserInput) error {
	if in.Username.Present() {
		u.Username = trimmed(in.Username)
	}
	if in.Email.Present() {
		u.Email = trimmed(in.Email)
	}
	optionalText(&u.Name, in.Name)
	in.PersonID.applyPtr(&u.PersonID)
	if in.Password.Present() {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password.Value), s.cost)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to hash password")
		}
		u.PasswordHash = string(hash)
	}
	return nil
}

func hydrateUsers(ctx context.Context, st repository.Store, users []*domain.User) error {
	var ids idSet
	for _, u := range users {
		ids.addPtr(u.PersonID)
	}
	people, err := lookup[domain.Person](ctx, st.People(), ids.ids)
	if err != nil {
		return err
	}
	for _, u := range users {
		u.Person = pick(people, u.PersonID)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
