package http

import "github.com/gin-gonic/gin"

// Register attaches command routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.submit)
	rg.GET("", h.list)
	rg.GET("/stream", h.stream)
}
