package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/rs/zerolog/log"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes err in the error envelope. Anything that is not an
// AppError is reported as an internal error.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Storage(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.JSON(appErr.HTTPCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    apperrors.CodeBadRequest,
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// idParam reads a positive numeric path parameter, writing a 400 when it is not one
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperrors.BadRequest("Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// userIDQuery reads the userId query parameter, writing a 400 when it is missing
func userIDQuery(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperrors.BadRequest("A valid userId query parameter is required"))
		return 0, false
	}
	return uint(id), true
}
