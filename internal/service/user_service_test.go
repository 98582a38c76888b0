package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

func (f *fixture) user(t *testing.T, email, password string, personID ...int64) *domain.User {
	t.Helper()
	in := UserInput{Email: Val(email), Password: Val(password)}
	if len(personID) > 0 {
		in.PersonID = Val(personID[0])
	}
	u, err := f.svc.Users.Create(context.Background(), in)
	require.NoError(t, err)
	return u
}

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "Jane.Doe@Example.com", "correct-horse")
	assert.Equal(t, "jane.doe", u.Username)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	_, err := f.svc.Users.Create(ctx, UserInput{Email: Val("x@example.com"), Password: Val("short")})
	assert.Equal(t, "Password must be at least 8 characters", errors.PublicMessage(err))

	_, err = f.svc.Users.Create(ctx, UserInput{Email: Val("not-an-email"), Password: Val("long-enough")})
	assert.Equal(t, "Invalid email format", errors.PublicMessage(err))

	_, err = f.svc.Users.Create(ctx, UserInput{Email: Val("JANE.DOE@example.com"), Password: Val("long-enough")})
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))

	named, err := f.svc.Users.Create(ctx, UserInput{
		Username: Val("jd2"),
		Email:    Val("jd2@example.com"),
		Password: Val("long-enough"),
	})
	require.NoError(t, err)
	assert.Equal(t, "jd2", named.Username)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "jane@example.com", "correct-horse")

	got, err := f.svc.Users.Authenticate(ctx, "JANE", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = f.svc.Users.Authenticate(ctx, "jane@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Users.Authenticate(ctx, "jane", "wrong-horse")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	assert.Equal(t, "Invalid credentials", errors.PublicMessage(err))

	_, err = f.svc.Users.Authenticate(ctx, "nobody", "correct-horse")
	assert.Equal(t, "Invalid credentials", errors.PublicMessage(err))
}

func TestUserService_PasswordChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "jane@example.com", "correct-horse")

	_, err := f.svc.Users.Update(ctx, u.ID, UserInput{Password: Val("battery-staple")})
	require.NoError(t, err)

	_, err = f.svc.Users.Authenticate(ctx, "jane", "correct-horse")
	assert.Error(t, err)
	_, err = f.svc.Users.Authenticate(ctx, "jane", "battery-staple")
	assert.NoError(t, err)
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "Jane", domain.PersonTypeAttorney)
	u := f.user(t, "jane@example.com", "correct-horse", p.ID)

	session, err := f.svc.Auth.Login(ctx, "jane", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	require.NotNil(t, session.User.Person)
	assert.Equal(t, p.ID, session.User.Person.ID)

	id, err := f.svc.Auth.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = f.svc.Auth.Login(ctx, "jane", "")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))

	_, err = f.svc.Auth.Login(ctx, "jane", "nope-nope")
	assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
}

func TestAuthService_VerifyRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "jane@example.com", "correct-horse")

	session, err := f.svc.Auth.Login(ctx, "jane", "correct-horse")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		f.svc.Auth.now = func() time.Time { return time.Now().Add(13 * time.Hour) }
		defer func() { f.svc.Auth.now = time.Now }()

		_, err := f.svc.Auth.Verify(session.Token)
		assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("other-secret"))
		require.NoError(t, err)

		_, err = f.svc.Auth.Verify(forged)
		assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = f.svc.Auth.Verify(none)
		assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.Auth.Verify("not.a.token")
		assert.Equal(t, errors.ErrCodeUnauthorized, errors.CodeOf(err))
	})
}

func TestAuthService_CurrentUserTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.person(t, "Jane", domain.PersonTypeAttorney)
	withPerson := f.user(t, "jane@example.com", "correct-horse", p.ID)
	without := f.user(t, "sam@example.com", "correct-horse")

	_, err := f.svc.Tasks.Create(ctx, TaskInput{Title: Val("File motion"), OwnerID: Val(p.ID)})
	require.NoError(t, err)

	tasks, err := f.svc.Auth.CurrentUserTasks(ctx, withPerson.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "File motion", tasks[0].Title)

	tasks, err = f.svc.Auth.CurrentUserTasks(ctx, without.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, f.svc.Users.Delete(ctx, without.ID))
	_, err = f.svc.Auth.CurrentUser(ctx, without.ID)
	assert.Equal(t, "User no longer exists", errors.PublicMessage(err))
}
