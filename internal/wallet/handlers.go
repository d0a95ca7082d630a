package wallet

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/utils"
)

type SumRequest struct {
	Sum int64 `json:"sum" validate:"required,gt=0,lte=1000000000000"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Balance returns the authenticated user's balance
func (h *Handler) Balance(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	balance, err := h.svc.Balance(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "balance": balance})
}

// Replenish handles POST /payments/replenish
func (h *Handler) Replenish(c echo.Context) error {
	return h.move(c, h.svc.Replenish)
}

// Withdraw handles POST /payments/withdraw
func (h *Handler) Withdraw(c echo.Context) error {
	return h.move(c, h.svc.Withdraw)
}

func (h *Handler) move(c echo.Context, fn func(ctx context.Context, userID string, sum int64) (*domain.LedgerEntry, error)) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	var req SumRequest
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}

	entry, err := fn(c.Request().Context(), uid, req.Sum)
	if err != nil {
		return utils.WriteError(c, domain.OnField("sum", err))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"balance":     entry.BalanceAfter,
		"transaction": entry,
	})
}

// Transactions lists the authenticated user's ledger entries
func (h *Handler) Transactions(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	txs, err := h.svc.History(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}

// AdminTransactions lists every ledger entry
func (h *Handler) AdminTransactions(c echo.Context) error {
	txs, err := h.svc.AllTransactions(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}
