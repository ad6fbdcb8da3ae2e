package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/middleware"
)

type RouterDeps struct {
	Auth          *AuthHandler
	Chat          *ChatHandler
	Ingest        *IngestHandler
	Gaps          *GapHandler
	Leads         *LeadHandler
	JWTSecret     []byte
	ChatRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	chatGroup := api.Group("")
	chatGroup.Use(middleware.RateLimit(deps.ChatRateLimit))
	chatGroup.POST("/chat", deps.Chat.Chat)
	chatGroup.POST("/chat/stream", deps.Chat.ChatStream)

	api.POST("/admin/login", deps.Auth.Login)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	adminGroup.POST("/knowledge", deps.Ingest.Ingest)
	adminGroup.DELETE("/knowledge/:id", deps.Ingest.DeleteSource)
	adminGroup.GET("/knowledge/stats", deps.Ingest.Stats)
	adminGroup.DELETE("/knowledge", deps.Ingest.Clear)

	adminGroup.GET("/gaps", deps.Gaps.List)
	adminGroup.PUT("/gaps/:id/resolve", deps.Gaps.Resolve)

	adminGroup.GET("/leads", deps.Leads.List)
	adminGroup.GET("/leads/export", deps.Leads.ExportCSV)
	adminGroup.GET("/chatlogs", deps.Leads.ListChatLogs)
	adminGroup.GET("/chatlogs/export", deps.Leads.ExportChatLogsCSV)
}
