package router

import (
	"github.com/labstack/echo/v4"

	"fyndit/internal/adapter/api/handler"
	"fyndit/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.POST("", chatHandler.Create)
	chats.GET("", chatHandler.List)
	chats.GET("/:id", chatHandler.Get)
	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.POST("/:id/messages/:messageId/offer-response", chatHandler.RespondToOffer)
	chats.POST("/:id/read", chatHandler.MarkRead)
	chats.POST("/:id/close", chatHandler.Close)
}
