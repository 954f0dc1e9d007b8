package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"omni-relay/internal/calendar"
	"omni-relay/internal/service"
)

// EventHandler mantiene dependencias para los endpoints de calendario.
type EventHandler struct {
	logger    *zap.Logger
	eventServ *service.EventService
}

// NewEventHandler crea una instancia de EventHandler.
func NewEventHandler(logger *zap.Logger, eventServ *service.EventService) *EventHandler {
	return &EventHandler{
		logger:    logger,
		eventServ: eventServ,
	}
}

// CreateEvent maneja POST /api/create-event. Camino fuera de banda: la
// respuesta es un único valor estructurado, no un stream.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Auth token and text are required"})
		return
	}

	message, err := h.eventServ.CreateFromText(c.Request.Context(), req.Token, req.Text)
	if err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// GetEvents maneja POST /api/get-events.
func (h *EventHandler) GetEvents(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Auth token is required."})
		return
	}

	events, err := h.eventServ.ListEvents(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Error("fetch events failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events."})
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}

	c.JSON(http.StatusOK, events)
}
