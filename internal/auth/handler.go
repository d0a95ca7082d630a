package auth

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

// ===== Register =====
func (h *Handler) Register(c echo.Context) error {
	var req RegisterInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	sess, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// ===== Login =====
func (h *Handler) Login(c echo.Context) error {
	var req LoginInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	sess, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// ===== Logout =====
func (h *Handler) Logout(c echo.Context) error {
	claims, _ := c.Get(utils.ClaimsKey).(*Claims)
	if err := h.svc.Logout(c.Request().Context(), claims); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Self returns the currently authenticated user's account
func (h *Handler) Self(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	u, err := h.svc.Self(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
