package support

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

// List handles GET /supports
func (h *Handler) List(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	tickets, err := h.svc.ListOwn(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"supports": tickets})
}

// Create handles POST /supports
func (h *Handler) Create(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	var req TicketInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	t, err := h.svc.Create(c.Request().Context(), uid, req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// AdminList handles GET /admin/supports
func (h *Handler) AdminList(c echo.Context) error {
	tickets, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"supports": tickets})
}

// AdminSetStatus handles PATCH /admin/supports/:id
func (h *Handler) AdminSetStatus(c echo.Context) error {
	var req StatusInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	t, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
