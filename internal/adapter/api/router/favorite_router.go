package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
	"fyndit/internal/adapter/api/middleware"
)

func SetupFavoriteRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)
	favorites.GET("", favoriteHandler.List)
	favorites.GET("/ids", favoriteHandler.ListIDs)
	favorites.POST("/:productId/toggle", favoriteHandler.Toggle)
}
