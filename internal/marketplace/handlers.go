package marketplace

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

// =========================
// Ads
// =========================

// ListAds handles GET /ads (published only)
func (h *Handler) ListAds(c echo.Context) error {
	ads, err := h.svc.ListPublished(c.Request().Context())
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": ads})
}

// GetAd handles GET /ads/:id
func (h *Handler) GetAd(c echo.Context) error {
	ad, err := h.svc.GetAd(c.Request().Context(), c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ad)
}

// CreateAd handles POST /ads
func (h *Handler) CreateAd(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	var req CreateAdInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	ad, err := h.svc.CreateAd(c.Request().Context(), uid, req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, ad)
}

// UpdateAd handles PUT /ads/:id
func (h *Handler) UpdateAd(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	var req UpdateAdInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	ad, err := h.svc.UpdateAd(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ad)
}

// DeleteAd handles DELETE /ads/:id
func (h *Handler) DeleteAd(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	if err := h.svc.DeleteAd(c.Request().Context(), uid, c.Param("id")); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ad deleted"})
}

// CompleteAd handles POST /ads/:id
func (h *Handler) CompleteAd(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	ad, err := h.svc.CompleteAd(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ad)
}

// PublishAd handles POST /ads/:id/publish
func (h *Handler) PublishAd(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	ad, err := h.svc.PublishAd(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ad)
}

// =========================
// Responses
// =========================

func (h *Handler) ListResponses(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	out, err := h.svc.ListResponses(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"responses": out})
}

func (h *Handler) CreateResponse(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	resp, err := h.svc.CreateResponse(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) AcceptResponse(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	ad, err := h.svc.AcceptResponse(c.Request().Context(), uid, c.Param("id"), c.Param("response"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, ad)
}

func (h *Handler) RejectResponse(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	resp, err := h.svc.RejectResponse(c.Request().Context(), uid, c.Param("id"), c.Param("response"))
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) DeleteResponse(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	if err := h.svc.DeleteResponse(c.Request().Context(), uid, c.Param("id"), c.Param("response")); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "response deleted"})
}

// =========================
// Reviews
// =========================

func (h *Handler) SubmitReview(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	var req ReviewInput
	if err := utils.Bind(c, &req); err != nil {
		return utils.WriteError(c, err)
	}
	review, err := h.svc.SubmitReview(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// DeleteReview handles DELETE /ads/:id/reviews/:review and, without a
// review id, DELETE /ads/:id/reviews.
func (h *Handler) DeleteReview(c echo.Context) error {
	uid, err := utils.CurrentUserID(c)
	if err != nil {
		return utils.WriteError(c, err)
	}
	ctx := c.Request().Context()
	if id := c.Param("review"); id != "" {
		err = h.svc.DeleteReview(ctx, uid, c.Param("id"), id)
	} else {
		err = h.svc.DeleteAdReview(ctx, uid, c.Param("id"))
	}
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted"})
}
