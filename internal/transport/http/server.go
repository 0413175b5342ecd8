package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docuchat/internal/config"
	"docuchat/internal/transport/http/handler"
	"docuchat/internal/transport/http/middleware"
)

// NewRouter wires the stub document-chat service: the same interface the
// real service exposes, backed by in-memory state and simulated ingestion.
// It serves local development and the integration tests.
func NewRouter(cfg config.StubConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	store := handler.NewStore(cfg.ProgressStep)
	chatHandler := handler.NewChatHandler(store, time.Duration(cfg.ChunkIntervalMS)*time.Millisecond)
	documentHandler := handler.NewDocumentHandler(store)
	conversationHandler := handler.NewConversationHandler(store)

	api := router.Group("/api")
	api.Use(middleware.AuthBearer(cfg.JWTSecret))
	api.POST("/chat/", chatHandler.Exchange)
	api.POST("/documents/upload/", documentHandler.Upload)
	api.GET("/documents/", documentHandler.List)
	api.GET("/documents/:id/status/", documentHandler.Status)
	api.POST("/documents/:id/delete/", documentHandler.Delete)
	api.GET("/conversations/", conversationHandler.List)
	api.POST("/conversations/:id/delete/", conversationHandler.Delete)

	return router
}
