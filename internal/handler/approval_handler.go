package handler

import (
	"net/http"

	"iglesia360/internal/middleware"
	"iglesia360/internal/model"
	"iglesia360/internal/service"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
	mockApproverID  uint
}

func NewApprovalHandler(approvalService service.ApprovalService, mockApproverID uint) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, mockApproverID: mockApproverID}
}

// RegisterRoutes mounts under the solicitud path; the segment must share the :id wildcard name
func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/solicitudes/:id")
	{
		group.POST("/approve", h.Approve)
		group.POST("/reject", h.Reject)
		group.GET("/approvals", h.ListApprovals)
	}
}

// Approve handles POST /api/solicitudes/:id/approve
// @Summary      Approve solicitud
// @Description  Records an approval by the acting user. The solicitud status is not changed.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id         path      int                     true   "Solicitud ID"
// @Param        X-User-ID  header    int                     false  "Acting approver"
// @Param        payload    body      service.ApproveRequest  false  "Comments"
// @Success      200  {object}  response.Response{data=model.ApprovalInfo}
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/solicitudes/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}
	var req service.ApproveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	approverID := middleware.ActorID(c, h.mockApproverID)
	sol, err := h.approvalService.Approve(c.Request.Context(), id, approverID, req)
	if err != nil {
		writeError(c, err, "Failed to approve solicitud")
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(decisionOf(sol, approverID), "Solicitud approved successfully"))
}

// Reject handles POST /api/solicitudes/:id/reject
// @Summary      Reject solicitud
// @Description  Records a rejection by the acting user; a reason is mandatory
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id         path      int                    true   "Solicitud ID"
// @Param        X-User-ID  header    int                    false  "Acting approver"
// @Param        payload    body      service.RejectRequest  true   "Reason and comments"
// @Success      200  {object}  response.Response{data=model.ApprovalInfo}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}
	var req service.RejectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	approverID := middleware.ActorID(c, h.mockApproverID)
	sol, err := h.approvalService.Reject(c.Request.Context(), id, approverID, req)
	if err != nil {
		writeError(c, err, "Failed to reject solicitud")
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(decisionOf(sol, approverID), "Solicitud rejected successfully"))
}

// ListApprovals handles GET /api/solicitudes/:id/approvals
// @Summary      List approvals
// @Tags         approvals
// @Produce      json
// @Param        id   path      int  true  "Solicitud ID"
// @Success      200  {object}  response.Response{data=[]model.ApprovalInfo}
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id}/approvals [get]
func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}

	approvals, err := h.approvalService.ListApprovals(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch approvals")
		return
	}

	c.JSON(http.StatusOK, response.Success(approvals))
}

// decisionOf picks the entry just decided by approverID: the latest dated one
func decisionOf(sol *model.Solicitud, approverID uint) *model.ApprovalInfo {
	var found *model.ApprovalInfo
	for i := range sol.Approvals {
		a := &sol.Approvals[i]
		if a.ApproverUserID != approverID || a.ApprovalDate == nil {
			continue
		}
		if found == nil || !a.ApprovalDate.Before(*found.ApprovalDate) {
			found = a
		}
	}
	return found
}
