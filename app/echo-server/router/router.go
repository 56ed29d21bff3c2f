package router

import (
	"time"
	"vagaMatch/app/echo-server/metrics"
	"vagaMatch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, selfOrStaff echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.GetProfile, authRequired)
	users.PUT("/me", handler.UpdateProfile, authRequired)
	users.GET("/:id", handler.GetUserByID, authRequired, selfOrStaff)
}

func SetupInterestRoutes(api *echo.Group, handler *rest.InterestsHandler, authRequired echo.MiddlewareFunc) {
	interests := api.Group("/interests")

	interests.GET("", handler.GetAll)
	interests.GET("/me", handler.GetMine, authRequired)
	interests.PUT("/me", handler.SetMine, authRequired)
}

func SetupOpportunityRoutes(api *echo.Group, handler *rest.OpportunityHandler, authRequired echo.MiddlewareFunc, staffOnly echo.MiddlewareFunc) {
	opportunities := api.Group("/opportunities")

	opportunities.GET("", handler.ListOpen)
	opportunities.GET("/:id", handler.Get)

	opportunities.GET("/all", handler.ListAll, authRequired, staffOnly)
	opportunities.POST("", handler.Create, authRequired, staffOnly)
	opportunities.PATCH("/:id/status", handler.UpdateStatus, authRequired, staffOnly)
	opportunities.DELETE("/:id", handler.Delete, authRequired, staffOnly)
}

func SetupApplicationRoutes(api *echo.Group, handler *rest.ApplicationHandler, authRequired echo.MiddlewareFunc, studentOnly echo.MiddlewareFunc) {
	applications := api.Group("/applications", authRequired, studentOnly)

	applications.POST("", handler.Apply)
	applications.DELETE("/:id", handler.Withdraw)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc, studentOnly echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired, studentOnly)

	reco.GET("", handler.GetRecommendations, observeServeLatency)
	reco.GET("/explanation/:id", handler.GetExplanation)
	reco.POST("/refresh", handler.Refresh)
	reco.POST("/refresh/:strategy", handler.RefreshStrategy)
}

func SetupRecommendationAdminRoutes(api *echo.Group, handler *rest.RecommendationAdminHandler, authRequired echo.MiddlewareFunc, staffOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/recommendations", authRequired, staffOnly)

	admin.GET("/stats", handler.Stats)
	admin.POST("/recompute", handler.RecomputeAll)
	admin.POST("/invalidate/opportunity/:id", handler.InvalidateOpportunity)
	admin.POST("/invalidate/user/:id", handler.InvalidateUser)
	admin.POST("/purge", handler.Purge)
}

func observeServeLatency(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		metrics.ServeDuration.Observe(time.Since(start).Seconds())
		metrics.ServeTotal.Inc()
		return err
	}
}
