package support_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/support"
	"github.com/sudo-init-do/workhub/internal/testutil"
)

func TestTickets(t *testing.T) {
	store := testutil.NewStore(t)
	svc := support.NewService(store, logging.Discard())
	ctx := context.Background()
	a := testutil.SeedUser(t, store, 0)
	b := testutil.SeedUser(t, store, 0)

	first, err := svc.Create(ctx, a.ID, support.TicketInput{Theme: "Payout", Description: "missing money"})
	require.NoError(t, err)
	assert.Equal(t, domain.SupportPending, first.Status)
	_, err = svc.Create(ctx, a.ID, support.TicketInput{Theme: "Login", Description: "locked out"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, support.TicketInput{Theme: "Other", Description: "hi"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, b.ID, support.TicketInput{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "theme")

	own, err := svc.ListOwn(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "Login", own[0].Theme)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	solved, err := svc.SetStatus(ctx, first.ID, domain.SupportSolved)
	require.NoError(t, err)
	assert.Equal(t, domain.SupportSolved, solved.Status)

	_, err = svc.SetStatus(ctx, first.ID, "archived")
	assert.ErrorAs(t, err, &verr)

	_, err = svc.SetStatus(ctx, "missing", domain.SupportClosed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandlers(t *testing.T) {
	store := testutil.NewStore(t)
	u := testutil.SeedUser(t, store, 0)
	h := support.NewHandler(support.NewService(store, logging.Discard()))

	e := testutil.NewEcho()
	g := e.Group("", testutil.AsUser(u.ID, domain.RoleAdmin))
	g.GET("/supports", h.List)
	g.POST("/supports", h.Create)
	g.PATCH("/admin/supports/:id", h.AdminSetStatus)

	rec := testutil.MakeRequest(t, e, http.MethodPost, "/supports", support.TicketInput{Theme: "Bug", Description: "crash"}, "")
	testutil.AssertStatus(t, rec, http.StatusCreated)
	id := testutil.DecodeJSON(t, rec)["id"].(string)

	rec = testutil.MakeRequest(t, e, http.MethodPatch, "/admin/supports/"+id, map[string]string{"status": "bogus"}, "")
	testutil.AssertStatus(t, rec, http.StatusUnprocessableEntity)

	rec = testutil.MakeRequest(t, e, http.MethodPatch, "/admin/supports/"+id, map[string]string{"status": "closed"}, "")
	testutil.AssertStatus(t, rec, http.StatusOK)
	assert.Equal(t, "closed", testutil.DecodeJSON(t, rec)["status"])

	rec = testutil.MakeRequest(t, e, http.MethodGet, "/supports", nil, "")
	testutil.AssertStatus(t, rec, http.StatusOK)
	assert.Len(t, testutil.DecodeJSON(t, rec)["supports"], 1)
}
