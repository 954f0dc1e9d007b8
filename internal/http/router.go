package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"omni-relay/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	relayH *RelayHandler,
	transcriptH *TranscriptHandler,
	eventH *EventHandler,
	limiter service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware())

	api := r.Group("/api")

	// Endpoints de streaming: una configuración del prompt builder por
	// familia de acción. El rate limit solo aplica aquí.
	streaming := api.Group("", rateLimitMiddleware(limiter))
	streaming.POST("/chat", relayH.Chat)
	streaming.POST("/action", relayH.Action)
	streaming.POST("/compose", relayH.Compose)
	streaming.POST("/analyze-text", relayH.Analyze)
	streaming.POST("/summarize-pdf", relayH.SummarizePDF)

	api.POST("/save_chat", transcriptH.SaveChat)
	api.GET("/chat_history/:userId", transcriptH.GetHistory)

	api.POST("/create-event", eventH.CreateEvent)
	api.POST("/get-events", eventH.GetEvents)

	return r
}
