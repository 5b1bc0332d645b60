package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
	"fyndit/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	e.POST("/v1/auth/register", authHandler.Register)
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/social", authHandler.SocialLogin)
	e.POST("/v1/auth/refresh", authHandler.RefreshToken)
	e.GET("/v1/auth/check-username", authHandler.CheckUsername)
	e.POST("/v1/auth/password-reset", authHandler.RequestPasswordReset)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("/logout", authHandler.Logout)
	protected.PATCH("/password", authHandler.UpdatePassword)
}
