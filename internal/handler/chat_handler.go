package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/pkg/errcode"
	"github.com/xxxsen/brandbot/internal/pkg/response"
	"github.com/xxxsen/brandbot/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.chat.Chat(c.Request.Context(), &service.ChatRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

// ChatStream answers the same request over SSE. Each reply fragment goes out
// as a "message" event and a final "done" event carries the turn summary.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, _ := c.Writer.(interface{ Flush() })
	started := false
	result, err := h.chat.ChatStream(c.Request.Context(), &service.ChatRequest{
		SessionID: req.SessionID,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
	}, func(fragment string) error {
		started = true
		c.SSEvent("message", gin.H{"delta": fragment})
		if flusher != nil {
			flusher.Flush()
		}
		if c.Request.Context().Err() != nil {
			return io.ErrClosedPipe
		}
		return nil
	})
	if err != nil {
		if !started {
			c.SSEvent("error", gin.H{"message": "chat failed"})
		}
		return
	}
	c.SSEvent("done", result)
	if flusher != nil {
		flusher.Flush()
	}
}
