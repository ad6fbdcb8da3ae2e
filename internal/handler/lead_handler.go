package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/brandbot/internal/pkg/response"
	"github.com/xxxsen/brandbot/internal/service"
)

type LeadHandler struct {
	admin  *service.AdminService
	export *service.ExportService
}

func NewLeadHandler(admin *service.AdminService, export *service.ExportService) *LeadHandler {
	return &LeadHandler{admin: admin, export: export}
}

func (h *LeadHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.admin.ListLeads(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	total, err := h.admin.CountLeads(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items, "total": total})
}

func (h *LeadHandler) ListChatLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.admin.ListChatLogs(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

func (h *LeadHandler) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.export.LeadsCSV(c.Request.Context(), c.Writer); err != nil {
		handleError(c, err)
	}
}

func (h *LeadHandler) ExportChatLogsCSV(c *gin.Context) {
	filename := fmt.Sprintf("chatlogs-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.export.ChatLogsCSV(c.Request.Context(), c.Writer); err != nil {
		handleError(c, err)
	}
}
