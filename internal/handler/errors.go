package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"iglesia360/internal/middleware"
	"iglesia360/pkg/apperror"
	"iglesia360/pkg/response"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindValidation:   http.StatusBadRequest,
	apperror.KindInvalidState: http.StatusForbidden,
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindConflict:     http.StatusConflict,
	apperror.KindUnauthorized: http.StatusUnauthorized,
}

// writeError renders err in the standard envelope. Unexpected errors are
// logged and answered with fallback only.
func writeError(c *gin.Context, err error, fallback string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindUnexpected {
		log.Printf("[%s] %s %s: %s: %v", middleware.GetRequestID(c), c.Request.Method, c.FullPath(), fallback, err)
		c.JSON(http.StatusInternalServerError, response.Error(fallback))
		return
	}

	status := kindStatus[appErr.Kind]
	if appErr.Kind == apperror.KindValidation && len(appErr.Fields) > 0 {
		c.JSON(status, response.Invalid(appErr.Message, appErr.Fields))
		return
	}
	c.JSON(status, response.Error(appErr.Message))
}

// bindJSON decodes the body into req, answering 400 on malformed input
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// pathID parses the :id segment. Ids that are not positive integers can never
// exist, so they are answered as not found.
func pathID(c *gin.Context, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, response.Error(notFound))
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric filter; anything unparsable means no filter
func queryUint(c *gin.Context, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
