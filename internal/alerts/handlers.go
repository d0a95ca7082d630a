package alerts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/workhub/internal/utils"
)

type Handler struct {
	inbox *Inbox
}

func NewHandler(inbox *Inbox) *Handler {
	return &Handler{inbox: inbox}
}

// ListNotifications returns current user's notifications, newest first
func (h *Handler) ListNotifications(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	items, err := h.inbox.List(c.Request().Context(), uid)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// MarkNotificationRead marks a notification as read
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	if err := h.inbox.MarkRead(c.Request().Context(), c.Param("id"), uid); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
