package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("nonsense", "json").GetLevel())
	_, isJSON := New("info", "json").Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestRequestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(Attach(log))
	e.GET("/ping", func(c echo.Context) error {
		From(c).Info("inside handler")
		return c.String(http.StatusTeapot, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "inside handler", inner["msg"])
	assert.NotEmpty(t, inner["request_id"])
	assert.Equal(t, "/ping", access["uri"])
	assert.Equal(t, float64(http.StatusTeapot), access["status"])
	assert.Equal(t, inner["request_id"], access["request_id"])
}

func TestFromWithoutAttach(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, From(c))
}
