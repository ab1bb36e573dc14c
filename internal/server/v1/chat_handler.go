package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/gateway"
	"github.com/kestrelhq/model-registry/internal/server/middleware"
	"github.com/kestrelhq/model-registry/internal/server/validator"
	"github.com/kestrelhq/model-registry/pkg/api"
)

// ChatHandler serves generation through the gateway facade.
type ChatHandler struct {
	service gateway.Service
}

func NewChatHandler(service gateway.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat handles POST /v1/chat. With stream=true the response is SSE, one event
// per stream chunk; otherwise a single JSON body.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":   "validation",
			"errors": validator.ParseValidationError(err),
		})
		return
	}

	scope := middleware.ScopeFrom(c)
	input := req.ToDomain()

	if req.Stream {
		h.streamChat(c, scope, input)
		return
	}

	out, err := h.service.Generate(c.Request.Context(), scope, input)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, api.ChatResponse{
		Text:         out.Text,
		ToolCalls:    out.ToolCalls,
		FinishReason: out.FinishReason,
		Usage:        out.Usage,
		Cost:         out.Cost,
	})
}

func (h *ChatHandler) streamChat(c *gin.Context, scope *domain.EntitlementContext, input domain.GenerateInput) {
	stream, err := h.service.StreamGenerate(c.Request.Context(), scope, input)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-stream
		if !ok {
			c.SSEvent("done", "[DONE]")
			return false
		}
		payload, err := json.Marshal(chunk)
		if err != nil {
			return false
		}
		c.SSEvent(string(chunk.Type), string(payload))
		return true
	})
}
