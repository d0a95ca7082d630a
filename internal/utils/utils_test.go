package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/workhub/internal/domain"
)

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Invalid("name", "is required"), http.StatusUnprocessableEntity},
		{fmt.Errorf("create ad: %w", domain.ErrInsufficientFunds), http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrAlreadyReviewed, http.StatusConflict},
		{domain.ErrAlreadyAccepted, http.StatusBadRequest},
		{domain.ErrNoWorkerAssigned, http.StatusBadRequest},
		{domain.ErrAdNotPublished, http.StatusBadRequest},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestWriteErrorFieldLevelFunds(t *testing.T) {
	c, rec := newContext("")
	err := domain.OnField("cost", fmt.Errorf("create ad: %w", domain.ErrInsufficientFunds))

	require.NoError(t, WriteError(c, err))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient money", decode(t, rec)["cost"])
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	c, rec := newContext("")
	require.NoError(t, WriteError(c, errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode(t, rec)["message"])
}

func TestWriteErrorUsesSentinelMessage(t *testing.T) {
	c, rec := newContext("")
	require.NoError(t, WriteError(c, fmt.Errorf("accept response: %w", domain.ErrAlreadyAccepted)))
	assert.Equal(t, domain.ErrAlreadyAccepted.Error(), decode(t, rec)["message"])
}

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Cost     int64  `json:"cost" validate:"gt=0"`
	Password string `json:"password" validate:"min=8"`
}

func TestBindValidates(t *testing.T) {
	c, _ := newContext(`{"name":"toolong","email":"nope","cost":0,"password":"short"}`)
	var s sample
	err := Bind(c, &s)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 5 characters", verr.Fields["name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be greater than 0", verr.Fields["cost"])
	assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
}

func TestBindMalformedBody(t *testing.T) {
	c, rec := newContext(`{"name":`)
	var s sample
	err := Bind(c, &s)
	require.Error(t, err)

	require.NoError(t, WriteError(c, err))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "validation failed", body["message"])
	assert.Contains(t, body["errors"], "body")
}

func TestCurrentUserID(t *testing.T) {
	c, _ := newContext("")
	_, err := CurrentUserID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	c.Set(UserIDKey, "u1")
	uid, err := CurrentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}
