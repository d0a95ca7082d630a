package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GET /admin/stats
func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// GET /admin/users
func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.Users(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GET /admin/wallets
func (h *Handler) ListWallets(c echo.Context) error {
	wallets, err := h.svc.Wallets(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"wallets": wallets})
}

// POST /admin/users/:id/suspend
func (h *Handler) SuspendUser(c echo.Context) error {
	return h.setActive(c, false, "user suspended")
}

// POST /admin/users/:id/activate
func (h *Handler) ActivateUser(c echo.Context) error {
	return h.setActive(c, true, "user activated")
}

func (h *Handler) setActive(c echo.Context, active bool, msg string) error {
	adminID, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	userID := c.Param("id")
	if err := h.svc.SetActive(c.Request().Context(), adminID, userID, active); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "user_id": userID})
}
