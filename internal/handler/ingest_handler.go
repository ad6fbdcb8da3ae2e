package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/pkg/errcode"
	"github.com/xxxsen/brandbot/internal/pkg/response"
	"github.com/xxxsen/brandbot/internal/service"
)

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type ingestRequest struct {
	SourceID string            `json:"source_id"`
	Content  string            `json:"content"`
	Format   string            `json:"format"`
	Metadata map[string]string `json:"metadata"`
}

func (h *IngestHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.ingest.Ingest(c.Request.Context(), &service.IngestRequest{
		SourceID: req.SourceID,
		Content:  req.Content,
		Format:   req.Format,
		Metadata: req.Metadata,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *IngestHandler) DeleteSource(c *gin.Context) {
	sourceID := c.Param("id")
	if err := h.ingest.DeleteSource(c.Request.Context(), sourceID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"source_id": sourceID})
}

func (h *IngestHandler) Stats(c *gin.Context) {
	stats, err := h.ingest.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

func (h *IngestHandler) Clear(c *gin.Context) {
	if err := h.ingest.Clear(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{})
}
