package handler

import (
	"net/http"

	"iglesia360/internal/middleware"
	"iglesia360/internal/service"
	"iglesia360/pkg/pagination"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequirePermission("audit.read")) // Protect history logs
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs handles GET /api/audit-logs
// @Summary      Get audit logs
// @Description  Every workflow audit entry, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        pageSize  query     int  false  "Items per page (default 10)"
// @Success      200  {object}  response.Paginated{data=[]service.AuditLogResponse}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), p)
	if err != nil {
		writeError(c, err, "Failed to retrieve audit logs")
		return
	}

	c.JSON(http.StatusOK, response.Page(logs, total, p.Page, p.PageSize))
}
