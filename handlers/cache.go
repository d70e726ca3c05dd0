package handlers

import (
	"log"
	"net/http"

	"devconnector/cache"

	"github.com/gin-gonic/gin"
)

// CacheHandler exposes the GitHub response cache.
type CacheHandler struct {
	cache *cache.TTLCache
}

func NewCacheHandler(c *cache.TTLCache) *CacheHandler {
	return &CacheHandler{cache: c}
}

// GetCacheStats GET /api/v1/cache/stats
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.cache.Stats(),
	})
}

// ClearCache DELETE /api/v1/cache
func (h *CacheHandler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	log.Println("GitHub cache cleared")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
