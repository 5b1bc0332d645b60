package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
	"fyndit/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()

	e.GET("/v1/products/metadata", productHandler.Metadata)

	// Detail is public but viewer-sensitive: the uid, when present, decides
	// inactive-listing visibility and view counting.
	e.GET("/v1/products/:id", productHandler.Get, authMiddleware.OptionalAuthenticate)

	protected := e.Group("/v1/products")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("", productHandler.Create)
	protected.PUT("/:id", productHandler.Update)
	protected.PATCH("/:id/sale-status", productHandler.UpdateSaleStatus)
	protected.DELETE("/:id", productHandler.Delete)

	mine := e.Group("/v1/my-products")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", productHandler.ListMine)
}
