package user

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

// GET /users/:id
func (h *Handler) PublicProfile(c echo.Context) error {
	p, err := h.svc.Public(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GET /profile/ads
func (h *Handler) Ads(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	ads, err := h.svc.Ads(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": ads})
}

// GET /profile/responses
func (h *Handler) Responses(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	out, err := h.svc.Responses(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"responses": out})
}

// GET /profile/reviews
func (h *Handler) Reviews(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	out, err := h.svc.Reviews(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": out})
}
