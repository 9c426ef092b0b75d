package handler

import (
	"net/http"

	"iglesia360/internal/middleware"
	"iglesia360/internal/model"
	"iglesia360/internal/service"
	"iglesia360/pkg/pagination"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

const msgSolicitudNotFound = "Solicitud not found"

type SolicitudHandler struct {
	solicitudService service.SolicitudService
	auditService     service.AuditService
	mockRequesterID  uint
}

// NewSolicitudHandler sets up the routing dependencies for solicitud endpoints.
// mockRequesterID acts for callers that carry no identity.
func NewSolicitudHandler(solicitudService service.SolicitudService, auditService service.AuditService, mockRequesterID uint) *SolicitudHandler {
	return &SolicitudHandler{
		solicitudService: solicitudService,
		auditService:     auditService,
		mockRequesterID:  mockRequesterID,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SolicitudHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/solicitudes")
	{
		group.GET("", h.ListSolicitudes)
		group.GET("/dashboard/stats", h.GetDashboardStats)
		group.GET("/:id", h.GetSolicitud)
		group.POST("", h.CreateSolicitud)
		group.PUT("/:id", h.UpdateSolicitud)
		group.POST("/:id/submit", h.SubmitSolicitud)
		group.GET("/:id/history", h.GetHistory)
	}
}

// ListSolicitudes handles GET /api/solicitudes
// @Summary      List solicitudes
// @Description  Paginated solicitudes, newest first
// @Tags         solicitudes
// @Produce      json
// @Param        page             query     int     false  "Page number (default 1)"
// @Param        pageSize         query     int     false  "Items per page (default 10, max 100)"
// @Param        status           query     string  false  "Status filter"
// @Param        ministryId       query     int     false  "Ministry filter"
// @Param        requesterUserId  query     int     false  "Requester filter"
// @Success      200  {object}  response.Paginated{data=[]model.Solicitud}
// @Failure      500  {object}  response.Response
// @Router       /api/solicitudes [get]
func (h *SolicitudHandler) ListSolicitudes(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.SolicitudFilter{
		SolicitudFilter: model.SolicitudFilter{
			Status:          model.SolicitudStatus(c.Query("status")),
			MinistryID:      queryUint(c, "ministryId"),
			RequesterUserID: queryUint(c, "requesterUserId"),
		},
		Page: p,
	}

	items, total, err := h.solicitudService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "Failed to fetch solicitudes")
		return
	}

	c.JSON(http.StatusOK, response.Page(items, total, p.Page, p.PageSize))
}

// GetSolicitud handles GET /api/solicitudes/:id
// @Summary      Get solicitud
// @Tags         solicitudes
// @Produce      json
// @Param        id   path      int  true  "Solicitud ID"
// @Success      200  {object}  response.Response{data=model.Solicitud}
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id} [get]
func (h *SolicitudHandler) GetSolicitud(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}

	sol, err := h.solicitudService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch solicitud")
		return
	}

	c.JSON(http.StatusOK, response.Success(sol))
}

// CreateSolicitud handles POST /api/solicitudes
// @Summary      Create solicitud
// @Description  Creates a draft solicitud; the total is computed from the items
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    int                             false  "Acting user"
// @Param        payload    body      service.CreateSolicitudRequest  true   "Solicitud"
// @Success      201  {object}  response.Response{data=model.Solicitud}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/solicitudes [post]
func (h *SolicitudHandler) CreateSolicitud(c *gin.Context) {
	var req service.CreateSolicitudRequest
	if !bindJSON(c, &req) {
		return
	}

	sol, err := h.solicitudService.Create(c.Request.Context(), middleware.ActorID(c, h.mockRequesterID), req)
	if err != nil {
		writeError(c, err, "Failed to create solicitud")
		return
	}

	c.JSON(http.StatusCreated, response.Success(sol))
}

// UpdateSolicitud handles PUT /api/solicitudes/:id
// @Summary      Update draft solicitud
// @Description  Patches a solicitud still in borrador
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        id       path      int                             true  "Solicitud ID"
// @Param        payload  body      service.UpdateSolicitudRequest  true  "Fields to change"
// @Success      200  {object}  response.Response{data=model.Solicitud}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id} [put]
func (h *SolicitudHandler) UpdateSolicitud(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}
	var req service.UpdateSolicitudRequest
	if !bindJSON(c, &req) {
		return
	}

	sol, err := h.solicitudService.Update(c.Request.Context(), middleware.ActorID(c, h.mockRequesterID), id, req)
	if err != nil {
		writeError(c, err, "Failed to update solicitud")
		return
	}

	c.JSON(http.StatusOK, response.Success(sol))
}

// SubmitSolicitud handles POST /api/solicitudes/:id/submit
// @Summary      Submit solicitud
// @Description  Moves a draft to pendiente and builds its approval chain
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        id       path      int                             true   "Solicitud ID"
// @Param        payload  body      service.SubmitSolicitudRequest  false  "Requester comments"
// @Success      200  {object}  response.Response{data=model.Solicitud}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id}/submit [post]
func (h *SolicitudHandler) SubmitSolicitud(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}
	var req service.SubmitSolicitudRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sol, err := h.solicitudService.Submit(c.Request.Context(), middleware.ActorID(c, h.mockRequesterID), id, req)
	if err != nil {
		writeError(c, err, "Failed to submit solicitud")
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithMessage(sol, "Solicitud submitted successfully"))
}

// GetDashboardStats handles GET /api/solicitudes/dashboard/stats
// @Summary      Dashboard statistics
// @Tags         solicitudes
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardStats}
// @Failure      500  {object}  response.Response
// @Router       /api/solicitudes/dashboard/stats [get]
func (h *SolicitudHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.solicitudService.DashboardStats(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to fetch dashboard stats")
		return
	}

	c.JSON(http.StatusOK, response.Success(stats))
}

// GetHistory handles GET /api/solicitudes/:id/history
// @Summary      Solicitud history
// @Description  Audit entries of one solicitud, oldest first
// @Tags         solicitudes
// @Produce      json
// @Param        id   path      int  true  "Solicitud ID"
// @Success      200  {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/solicitudes/{id}/history [get]
func (h *SolicitudHandler) GetHistory(c *gin.Context) {
	id, ok := pathID(c, msgSolicitudNotFound)
	if !ok {
		return
	}

	logs, err := h.auditService.GetHistory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch solicitud history")
		return
	}

	c.JSON(http.StatusOK, response.Success(logs))
}
