package httpHandler

import (
	"net/http"

	"devconnector/apperr"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst, recording a bad request error
// when it cannot.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperr.Wrap(err, apperr.KindBadRequest, "Invalid request body"))
		return false
	}
	return true
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func okCount[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

func deleted(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{})
}
