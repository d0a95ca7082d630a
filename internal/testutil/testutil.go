// Package testutil holds fixtures shared by package tests: a seeded memory
// store, an echo instance wired like the server, and request helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/store/memory"
	"github.com/sudo-init-do/workhub/internal/utils"
)

var seq atomic.Int64

// NewStore returns an empty in-memory store.
func NewStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.New()
}

// SeedUser inserts an active user with the given balance.
func SeedUser(t *testing.T, store domain.Store, balance int64) *domain.User {
	t.Helper()
	n := seq.Add(1)
	id := uuid.NewString()
	u := &domain.User{
		ID:        id,
		FirstName: fmt.Sprintf("User%d", n),
		LastName:  "Test",
		Email:     fmt.Sprintf("user%d-%s@example.com", n, id[:8]),
		Phone:     fmt.Sprintf("+1%04d%s", n, id[:8]),
		Role:      domain.RoleUser,
		IsActive:  true,
		Balance:   balance,
	}
	err := store.Tx(context.Background(), func(q domain.Queries) error {
		return q.CreateUser(context.Background(), u)
	})
	require.NoError(t, err)
	return u
}

// GetUser reloads a user.
func GetUser(t *testing.T, store domain.Store, id string) *domain.User {
	t.Helper()
	var u *domain.User
	err := store.View(context.Background(), func(q domain.Queries) error {
		var err error
		u, err = q.GetUser(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	return u
}

// GetAd reloads an ad.
func GetAd(t *testing.T, store domain.Store, id string) *domain.Ad {
	t.Helper()
	var a *domain.Ad
	err := store.View(context.Background(), func(q domain.Queries) error {
		var err error
		a, err = q.GetAd(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	return a
}

// NewEcho returns an echo instance with the request validator installed.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewValidator()
	return e
}

// AsUser is a middleware that authenticates every request as userID.
func AsUser(userID string, role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(utils.UserIDKey, userID)
			c.Set(utils.RoleKey, string(role))
			return next(c)
		}
	}
}

// MakeRequest performs a request against h. body is JSON encoded unless nil.
func MakeRequest(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON unmarshals the recorder body into a map.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// AssertStatus fails with the body when the status does not match.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
