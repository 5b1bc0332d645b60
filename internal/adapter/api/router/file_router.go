package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
	"fyndit/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)
	files.POST("/images", fileHandler.UploadImage)
	files.DELETE("/images", fileHandler.DeleteImage)
}
