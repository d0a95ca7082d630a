package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/workhub/internal/api"
	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/store/memory"
	"github.com/sudo-init-do/workhub/internal/testutil"
)

type harness struct {
	t     *testing.T
	e     *echo.Echo
	store *memory.Store
}

func newHarness(t *testing.T) *harness {
	store := testutil.NewStore(t)
	e := api.NewServer(api.Deps{
		Store:         store,
		Log:           logging.Discard(),
		Issuer:        auth.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		Revoker:       auth.NewMemoryRevoker(),
		BcryptCost:    bcrypt.MinCost,
		AuthRateLimit: 1000,
	})
	return &harness{t: t, e: e, store: store}
}

func (h *harness) do(method, path string, body any, token string, want int) map[string]any {
	h.t.Helper()
	rec := testutil.MakeRequest(h.t, h.e, method, path, body, token)
	testutil.AssertStatus(h.t, rec, want)
	return testutil.DecodeJSON(h.t, rec)
}

// register creates an account and returns its token and id.
func (h *harness) register(email, phone string) (string, string) {
	h.t.Helper()
	body := h.do(http.MethodPost, "/auth/register", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"phone":      phone,
		"password":   "password123",
	}, "", http.StatusCreated)
	return body["token"].(string), body["user"].(map[string]any)["id"].(string)
}

func TestMarketplaceScenario(t *testing.T) {
	h := newHarness(t)
	tokenA, idA := h.register("a@example.com", "+10000000001")
	tokenB, idB := h.register("b@example.com", "+10000000002")

	h.do(http.MethodPost, "/payments/replenish", map[string]any{"sum": 500}, tokenA, http.StatusOK)

	ad := h.do(http.MethodPost, "/ads", map[string]any{"name": "Fix roof", "description": "Leaks in the rain", "cost": 200}, tokenA, http.StatusCreated)
	adID := ad["id"].(string)
	assert.Equal(t, "published", ad["status"])

	bal := h.do(http.MethodGet, "/wallet/balance", nil, tokenA, http.StatusOK)
	assert.Equal(t, float64(300), bal["balance"])

	resp := h.do(http.MethodPost, "/ads/"+adID+"/responses", nil, tokenB, http.StatusCreated)
	respID := resp["id"].(string)
	assert.Equal(t, "pending", resp["status"])

	accepted := h.do(http.MethodPost, "/ads/"+adID+"/responses/"+respID+"/accept", nil, tokenA, http.StatusOK)
	assert.Equal(t, "in_progress", accepted["status"])
	assert.Equal(t, idB, accepted["worker_id"])

	// the worker cannot complete someone else's ad
	h.do(http.MethodPost, "/ads/"+adID, nil, tokenB, http.StatusForbidden)

	done := h.do(http.MethodPost, "/ads/"+adID, nil, tokenA, http.StatusOK)
	assert.Equal(t, "completed", done["status"])

	bal = h.do(http.MethodGet, "/wallet/balance", nil, tokenB, http.StatusOK)
	assert.Equal(t, float64(200), bal["balance"])

	h.do(http.MethodPost, "/ads/"+adID+"/reviews", map[string]any{"description": "solid", "score": 5}, tokenA, http.StatusCreated)
	h.do(http.MethodPost, "/ads/"+adID+"/reviews", map[string]any{"score": 3}, tokenA, http.StatusConflict)

	profile := h.do(http.MethodGet, "/users/"+idB, nil, "", http.StatusOK)
	assert.Equal(t, float64(5), profile["rating"])

	notes := h.do(http.MethodGet, "/notifications", nil, tokenB, http.StatusOK)
	assert.Len(t, notes["notifications"], 3)

	txs := h.do(http.MethodGet, "/wallet/transactions", nil, tokenA, http.StatusOK)
	assert.Len(t, txs["transactions"], 2)

	self := h.do(http.MethodGet, "/auth/self", nil, tokenA, http.StatusOK)
	assert.Equal(t, idA, self["id"])
	assert.NotContains(t, self, "password_hash")
}

func TestWithdrawBoundary(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register("w@example.com", "+10000000003")

	h.do(http.MethodPost, "/payments/replenish", map[string]any{"sum": 100}, token, http.StatusOK)

	body := h.do(http.MethodPost, "/payments/withdraw", map[string]any{"sum": 101}, token, http.StatusBadRequest)
	assert.Equal(t, "insufficient money", body["sum"])

	body = h.do(http.MethodPost, "/payments/withdraw", map[string]any{"sum": 100}, token, http.StatusOK)
	assert.Equal(t, float64(0), body["balance"])

	h.do(http.MethodPost, "/payments/withdraw", map[string]any{"sum": 0}, token, http.StatusUnprocessableEntity)
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register("l@example.com", "+10000000004")

	h.do(http.MethodGet, "/auth/self", nil, token, http.StatusOK)
	h.do(http.MethodPost, "/auth/logout", nil, token, http.StatusOK)
	h.do(http.MethodGet, "/auth/self", nil, token, http.StatusUnauthorized)

	login := h.do(http.MethodPost, "/auth/login", map[string]string{"email": "l@example.com", "password": "password123"}, "", http.StatusOK)
	h.do(http.MethodGet, "/auth/self", nil, login["token"].(string), http.StatusOK)
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	userToken, userID := h.register("u@example.com", "+10000000005")
	_, bossID := h.register("boss@example.com", "+10000000006")

	h.do(http.MethodGet, "/admin/stats", nil, userToken, http.StatusForbidden)
	h.do(http.MethodGet, "/admin/stats", nil, "", http.StatusUnauthorized)

	require.NoError(t, auth.NewService(h.store, nil, nil, logging.Discard(), bcrypt.MinCost).
		PromoteAdmin(context.Background(), "boss@example.com"))
	login := h.do(http.MethodPost, "/auth/login", map[string]string{"email": "boss@example.com", "password": "password123"}, "", http.StatusOK)
	bossToken := login["token"].(string)

	stats := h.do(http.MethodGet, "/admin/stats", nil, bossToken, http.StatusOK)
	assert.Equal(t, float64(2), stats["users"])

	ticket := h.do(http.MethodPost, "/supports", map[string]string{"theme": "help", "description": "please"}, userToken, http.StatusCreated)
	h.do(http.MethodPatch, "/admin/supports/"+ticket["id"].(string), map[string]string{"status": "solved"}, bossToken, http.StatusOK)

	h.do(http.MethodPost, "/admin/users/"+userID+"/suspend", nil, bossToken, http.StatusOK)
	h.do(http.MethodPost, "/auth/login", map[string]string{"email": "u@example.com", "password": "password123"}, "", http.StatusForbidden)
	h.do(http.MethodPost, "/admin/users/"+bossID+"/suspend", nil, bossToken, http.StatusForbidden)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "ok", h.do(http.MethodGet, "/health", nil, "", http.StatusOK)["status"])
	assert.Equal(t, "ready", h.do(http.MethodGet, "/ready", nil, "", http.StatusOK)["status"])

	rec := testutil.MakeRequest(t, h.e, http.MethodGet, "/metrics", nil, "")
	testutil.AssertStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "workhub_http_requests_total")
}

func TestAuthRateLimit(t *testing.T) {
	store := testutil.NewStore(t)
	e := api.NewServer(api.Deps{
		Store:         store,
		Log:           logging.Discard(),
		Issuer:        auth.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		Revoker:       auth.NewMemoryRevoker(),
		BcryptCost:    bcrypt.MinCost,
		AuthRateLimit: 2,
	})

	creds := map[string]string{"email": "nobody@example.com", "password": "password123"}
	for i := 0; i < 2; i++ {
		rec := testutil.MakeRequest(t, e, http.MethodPost, "/auth/login", creds, "")
		testutil.AssertStatus(t, rec, http.StatusUnauthorized)
	}
	rec := testutil.MakeRequest(t, e, http.MethodPost, "/auth/login", creds, "")
	testutil.AssertStatus(t, rec, http.StatusTooManyRequests)

	// other routes are not throttled
	rec = testutil.MakeRequest(t, e, http.MethodGet, "/ads", nil, "")
	testutil.AssertStatus(t, rec, http.StatusOK)
}
