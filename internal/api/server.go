// Package api wires the services into an echo server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sudo-init-do/workhub/internal/admin"
	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/domain"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/marketplace"
	"github.com/sudo-init-do/workhub/internal/metrics"
	appmw "github.com/sudo-init-do/workhub/internal/middleware"
	"github.com/sudo-init-do/workhub/internal/support"
	"github.com/sudo-init-do/workhub/internal/user"
	"github.com/sudo-init-do/workhub/internal/utils"
	"github.com/sudo-init-do/workhub/internal/wallet"
)

type Deps struct {
	Store   domain.Store
	Log     logrus.FieldLogger
	Issuer  *auth.Issuer
	Revoker auth.Revoker
	// Notifier defaults to writing notifications straight into the store.
	Notifier alerts.Notifier

	BcryptCost     int
	RefundOnDelete bool
	// AuthRateLimit is the number of register/login calls allowed per
	// client IP per minute.
	AuthRateLimit float64
}

// NewServer builds the echo instance with every route registered.
func NewServer(d Deps) *echo.Echo {
	inbox := alerts.NewInbox(d.Store)
	if d.Notifier == nil {
		d.Notifier = inbox
	}
	if d.AuthRateLimit <= 0 {
		d.AuthRateLimit = 20
	}

	authH := auth.NewHandler(auth.NewService(d.Store, d.Issuer, d.Revoker, d.Log, d.BcryptCost))
	market := marketplace.NewHandler(marketplace.NewService(d.Store, d.Notifier, d.Log, marketplace.Options{RefundOnDelete: d.RefundOnDelete}))
	walletH := wallet.NewHandler(wallet.NewService(d.Store, d.Log))
	profile := user.NewHandler(user.NewService(d.Store))
	supportH := support.NewHandler(support.NewService(d.Store, d.Log))
	adminH := admin.NewHandler(admin.NewService(d.Store, d.Log))
	inboxH := alerts.NewHandler(inbox)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = utils.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(logging.Attach(d.Log))
	e.Use(logging.RequestLogger(d.Log))
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS())

	// Health and ops
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", ready(d.Store))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Public
	limited := authRateLimiter(d.AuthRateLimit)
	e.POST("/auth/register", authH.Register, limited)
	e.POST("/auth/login", authH.Login, limited)
	e.GET("/ads", market.ListAds)
	e.GET("/ads/:id", market.GetAd)
	e.GET("/users/:id", profile.PublicProfile)

	// Authenticated group
	g := e.Group("")
	g.Use(appmw.JWTMiddleware(d.Issuer, d.Revoker))

	g.POST("/auth/logout", authH.Logout)
	g.GET("/auth/self", authH.Self)

	// Ads
	g.POST("/ads", market.CreateAd)
	g.PUT("/ads/:id", market.UpdateAd)
	g.DELETE("/ads/:id", market.DeleteAd)
	g.POST("/ads/:id", market.CompleteAd)
	g.POST("/ads/:id/publish", market.PublishAd)

	// Responses
	g.GET("/ads/:id/responses", market.ListResponses)
	g.POST("/ads/:id/responses", market.CreateResponse)
	g.DELETE("/ads/:id/responses/:response", market.DeleteResponse)
	g.POST("/ads/:id/responses/:response/accept", market.AcceptResponse)
	g.POST("/ads/:id/responses/:response/reject", market.RejectResponse)

	// Reviews
	g.POST("/ads/:id/reviews", market.SubmitReview)
	g.DELETE("/ads/:id/reviews", market.DeleteReview)
	g.DELETE("/ads/:id/reviews/:review", market.DeleteReview)

	// Payments and wallet
	g.POST("/payments/replenish", walletH.Replenish)
	g.POST("/payments/withdraw", walletH.Withdraw)
	g.GET("/wallet/balance", walletH.Balance)
	g.GET("/wallet/transactions", walletH.Transactions)

	// Profile
	g.GET("/profile/ads", profile.Ads)
	g.GET("/profile/responses", profile.Responses)
	g.GET("/profile/reviews", profile.Reviews)

	// Support
	g.GET("/supports", supportH.List)
	g.POST("/supports", supportH.Create)

	// Notifications
	g.GET("/notifications", inboxH.ListNotifications)
	g.POST("/notifications/:id/read", inboxH.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(appmw.JWTMiddleware(d.Issuer, d.Revoker))
	adminGroup.Use(appmw.AdminGuard)
	adminGroup.GET("/stats", adminH.Stats)
	adminGroup.GET("/users", adminH.ListUsers)
	adminGroup.GET("/wallets", adminH.ListWallets)
	adminGroup.POST("/users/:id/suspend", adminH.SuspendUser)
	adminGroup.POST("/users/:id/activate", adminH.ActivateUser)
	adminGroup.GET("/supports", supportH.AdminList)
	adminGroup.PATCH("/supports/:id", supportH.AdminSetStatus)
	adminGroup.GET("/transactions", walletH.AdminTransactions)

	return e
}

func ready(store domain.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logging.From(c).WithError(err).Warn("readiness check failed")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	}
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(perMinute float64) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perMinute / 60),
		Burst:     int(perMinute),
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "too many requests"})
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "client not identified"})
		},
	})
}
