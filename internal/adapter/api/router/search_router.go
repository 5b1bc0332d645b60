package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
)

func SetupSearchRouter(e *echo.Echo) {
	searchHandler := handler.GetSearchHandler()

	e.GET("/v1/search", searchHandler.Search)
	e.GET("/v1/browse", searchHandler.Browse)
}
