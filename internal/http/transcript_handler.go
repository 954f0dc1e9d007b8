package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/service"
)

// TranscriptHandler mantiene dependencias para los endpoints de transcripts.
type TranscriptHandler struct {
	logger         *zap.Logger
	transcriptServ *service.TranscriptService
}

// NewTranscriptHandler crea una instancia de TranscriptHandler.
func NewTranscriptHandler(logger *zap.Logger, transcriptServ *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{
		logger:         logger,
		transcriptServ: transcriptServ,
	}
}

// SaveChat maneja POST /api/save_chat. Reemplaza el transcript previo del
// usuario por completo (upsert, no append).
func (h *TranscriptHandler) SaveChat(c *gin.Context) {
	var req struct {
		UserID   string             `json:"userId"`
		Messages *domain.Transcript `json:"messages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.Messages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and messages are required"})
		return
	}

	if err := h.transcriptServ.Save(c.Request.Context(), req.UserID, *req.Messages); err != nil {
		h.logger.Error("save chat failed", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save chat history."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat saved."})
}

// GetHistory maneja GET /api/chat_history/:userId. Devuelve el transcript más
// reciente del usuario, o lista vacía si nunca guardó.
func (h *TranscriptHandler) GetHistory(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	messages, err := h.transcriptServ.Load(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("load chat history failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history."})
		return
	}
	if messages == nil {
		messages = domain.Transcript{}
	}

	c.JSON(http.StatusOK, messages)
}
