package handler

import (
	"net/http"

	"iglesia360/internal/service"
	"iglesia360/pkg/pagination"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

type MinistryHandler struct {
	ministryService service.MinistryService
}

func NewMinistryHandler(ministryService service.MinistryService) *MinistryHandler {
	return &MinistryHandler{ministryService: ministryService}
}

func (h *MinistryHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/ministries")
	{
		group.GET("", h.ListMinistries)
		group.GET("/:id", h.GetMinistry)
	}
}

// ListMinistries handles GET /api/ministries
// @Summary      List ministries
// @Tags         ministries
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        pageSize  query     int     false  "Items per page (default 10)"
// @Param        status    query     string  false  "active | inactive"
// @Success      200  {object}  response.Paginated{data=[]model.Ministry}
// @Router       /api/ministries [get]
func (h *MinistryHandler) ListMinistries(c *gin.Context) {
	p := pagination.Parse(c)

	ministries, total, err := h.ministryService.ListMinistries(c.Request.Context(), c.Query("status"), p)
	if err != nil {
		writeError(c, err, "Failed to fetch ministries")
		return
	}

	c.JSON(http.StatusOK, response.Page(ministries, total, p.Page, p.PageSize))
}

// GetMinistry handles GET /api/ministries/:id
// @Summary      Get ministry
// @Tags         ministries
// @Produce      json
// @Param        id   path      int  true  "Ministry ID"
// @Success      200  {object}  response.Response{data=model.Ministry}
// @Failure      404  {object}  response.Response
// @Router       /api/ministries/{id} [get]
func (h *MinistryHandler) GetMinistry(c *gin.Context) {
	id, ok := pathID(c, "Ministry not found")
	if !ok {
		return
	}

	ministry, err := h.ministryService.GetMinistry(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch ministry")
		return
	}

	c.JSON(http.StatusOK, response.Success(ministry))
}
