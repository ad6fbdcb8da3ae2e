package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/pkg/errcode"
	"github.com/xxxsen/brandbot/internal/pkg/response"
	"github.com/xxxsen/brandbot/internal/service"
)

type GapHandler struct {
	admin *service.AdminService
}

func NewGapHandler(admin *service.AdminService) *GapHandler {
	return &GapHandler{admin: admin}
}

func (h *GapHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.admin.ListGaps(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

type resolveGapRequest struct {
	Note string `json:"note"`
}

func (h *GapHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, errcode.ErrInvalid, "invalid gap id")
		return
	}
	var req resolveGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.admin.ResolveGap(c.Request.Context(), id, req.Note); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
