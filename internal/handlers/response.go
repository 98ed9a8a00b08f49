package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respond wraps every successful payload in the {success, data} envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// parsePagination reads offset/limit query params, applying defaults and
// rejecting negatives. Reports false after writing the error response.
func parsePagination(c *gin.Context, defaultLimit int) (int, int, bool) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondError(c, http.StatusBadRequest, "invalid offset")
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 0 {
		respondError(c, http.StatusBadRequest, "invalid limit")
		return 0, 0, false
	}
	return offset, limit, true
}
