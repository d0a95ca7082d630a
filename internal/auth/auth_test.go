package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/testutil"
)

const secret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) (*auth.Service, domain.Store) {
	t.Helper()
	store := testutil.NewStore(t)
	svc := auth.NewService(store, auth.NewIssuer(secret, time.Hour), auth.NewMemoryRevoker(), logging.Discard(), bcrypt.MinCost)
	return svc, store
}

func registerInput(email string) auth.RegisterInput {
	return auth.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Phone:     "+15550001111",
		Password:  "correct horse",
	}
}

func TestIssuerRoundTrip(t *testing.T) {
	iss := auth.NewIssuer(secret, time.Hour)
	token, claims, err := iss.Issue(&domain.User{ID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, "admin", parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestIssuerRejects(t *testing.T) {
	now := time.Now()
	iss := auth.NewIssuer(secret, time.Minute).WithClock(func() time.Time { return now })
	token, _, err := iss.Issue(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := auth.NewIssuer(secret, time.Minute).WithClock(func() time.Time { return now.Add(2 * time.Minute) })
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := auth.NewIssuer("another-secret-of-some-length", time.Minute).Parse(token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unsigned", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": "u1",
			"jti":     "x",
			"exp":     now.Add(time.Hour).Unix(),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = iss.Parse(none)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestMemoryRevoker(t *testing.T) {
	r := auth.NewMemoryRevoker()
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "a", time.Now().Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "old", time.Now().Add(-time.Second)))

	ok, err := r.Revoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Revoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Revoked(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, registerInput(" Ada@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.User.Email)
	assert.Equal(t, domain.RoleUser, sess.User.Role)
	assert.NotEqual(t, "correct horse", sess.User.PasswordHash)
	assert.Zero(t, sess.User.Balance)
	assert.Nil(t, sess.User.Rating)

	login, err := svc.Login(ctx, auth.LoginInput{Email: "ADA@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("dup@example.com"))
	require.NoError(t, err)

	in := registerInput("DUP@example.com")
	in.Phone = "+15550002222"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLoginSuspended(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, registerInput("sus@example.com"))
	require.NoError(t, err)
	require.NoError(t, store.Tx(ctx, func(q domain.Queries) error {
		return q.SetUserActive(ctx, sess.User.ID, false)
	}))

	_, err = svc.Login(ctx, auth.LoginInput{Email: "sus@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)
}

func TestPromoteAdmin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, registerInput("boss@example.com"))
	require.NoError(t, err)
	require.NoError(t, svc.PromoteAdmin(ctx, "Boss@example.com"))
	assert.Equal(t, domain.RoleAdmin, testutil.GetUser(t, store, sess.User.ID).Role)

	assert.ErrorIs(t, svc.PromoteAdmin(ctx, "ghost@example.com"), domain.ErrNotFound)
}

func TestHandlers(t *testing.T) {
	svc, _ := newService(t)
	h := auth.NewHandler(svc)
	e := testutil.NewEcho()
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	rec := testutil.MakeRequest(t, e, http.MethodPost, "/auth/register", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "not-an-email",
		"phone":      "+15550001111",
		"password":   "short",
	}, "")
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)
	errs := testutil.DecodeJSON(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	rec = testutil.MakeRequest(t, e, http.MethodPost, "/auth/register", registerInput("ada@example.com"), "")
	testutil.AssertStatus(t, rec, http.StatusCreated)
	body := testutil.DecodeJSON(t, rec)
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body["user"], "password_hash")

	rec = testutil.MakeRequest(t, e, http.MethodPost, "/auth/register", registerInput("ada@example.com"), "")
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = testutil.MakeRequest(t, e, http.MethodPost, "/auth/login", auth.LoginInput{Email: "ada@example.com", Password: "nope nope"}, "")
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	rec = testutil.MakeRequest(t, e, http.MethodPost, "/auth/login", auth.LoginInput{Email: "ada@example.com", Password: "correct horse"}, "")
	testutil.AssertStatus(t, rec, http.StatusOK)
}
