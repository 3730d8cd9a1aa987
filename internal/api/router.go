package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hanbat-ai/hanbatbot/internal/api/chat"
	"github.com/hanbat-ai/hanbatbot/internal/api/middleware"
	"github.com/hanbat-ai/hanbatbot/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(chatService *service.ChatService, engine *service.Engine, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat UI
	SetupStaticRoutes(r)

	// Chat API
	chatHandler := chat.NewHandler(chatService, engine)
	apiGroup := r.Group("/api")
	chatHandler.RegisterRoutes(apiGroup)

	return r
}
