package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/extract"
	"omni-relay/internal/service"
	"omni-relay/internal/stream"
)

// streamFailedMessage es el único frame de error terminal que ve el cliente.
const streamFailedMessage = "AI stream failed"

// RelayHandler mantiene dependencias para los endpoints de streaming.
type RelayHandler struct {
	logger    *zap.Logger
	relayServ *service.RelayService
	extractor extract.TextExtractor
}

// NewRelayHandler crea una instancia de RelayHandler.
func NewRelayHandler(logger *zap.Logger, relayServ *service.RelayService, extractor extract.TextExtractor) *RelayHandler {
	return &RelayHandler{
		logger:    logger,
		relayServ: relayServ,
		extractor: extractor,
	}
}

// streamResponse abre el stream del gateway y reenvía un frame por fragment.
// En fallo del gateway escribe exactamente un frame de error y cierra; el
// canal nunca se cierra en silencio.
func (h *RelayHandler) streamResponse(c *gin.Context, req domain.PromptRequest, invalidMsg string) {
	fragments, err := h.relayServ.Stream(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidMsg})
			return
		}
		h.logger.Error("open stream failed", zap.String("kind", string(req.Kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": streamFailedMessage})
		return
	}

	stream.PrepareHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	enc := stream.NewEncoder(c.Writer)

	for fragment := range fragments {
		if fragment.Err != nil {
			h.logger.Error("error during ai stream", zap.Error(fragment.Err))
			if err := enc.WriteError(streamFailedMessage); err != nil {
				h.logger.Warn("write error frame failed", zap.Error(err))
			}
			return
		}
		if err := enc.WriteChunk(fragment.Text); err != nil {
			// El consumidor dejó de leer; el transporte libera el resto.
			h.logger.Warn("client went away mid-stream", zap.Error(err))
			return
		}
	}
}

// Chat maneja POST /api/chat.
func (h *RelayHandler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	h.streamResponse(c, domain.PromptRequest{
		Kind:    domain.KindChat,
		Message: req.Message,
		Context: req.Context,
	}, "Message is required")
}

// Action maneja POST /api/action (rephrase, summarize).
func (h *RelayHandler) Action(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Action == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action and text are required"})
		return
	}

	h.streamResponse(c, domain.PromptRequest{
		Kind:   domain.KindAction,
		Action: req.Action,
		Text:   req.Text,
	}, "Invalid action")
}

// Compose maneja POST /api/compose.
func (h *RelayHandler) Compose(c *gin.Context) {
	var req struct {
		Template string                 `json:"template"`
		Context  *domain.ComposeContext `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Template == "" || req.Context == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template and context are required."})
		return
	}

	h.streamResponse(c, domain.PromptRequest{
		Kind:     domain.KindCompose,
		Template: req.Template,
		Compose:  *req.Context,
	}, "Invalid template type.")
}

// Analyze maneja POST /api/analyze-text.
func (h *RelayHandler) Analyze(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" || req.Context == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and context are required."})
		return
	}

	h.streamResponse(c, domain.PromptRequest{
		Kind:     domain.KindAnalyze,
		Question: req.Question,
		Context:  req.Context,
	}, "Question and context are required.")
}

// SummarizePDF maneja POST /api/summarize-pdf (multipart, campo "pdf").
func (h *RelayHandler) SummarizePDF(c *gin.Context) {
	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file uploaded."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize PDF."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("read uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize PDF."})
		return
	}

	text, err := h.extractor.Extract(fileHeader.Filename, data)
	if err != nil {
		h.logger.Error("document extraction failed", zap.String("file", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize PDF."})
		return
	}

	h.streamResponse(c, domain.PromptRequest{
		Kind:    domain.KindDocument,
		Context: text,
	}, "Failed to summarize PDF.")
}
