package http

import "github.com/gin-gonic/gin"

// Register registers the project lifecycle routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/upgrade", h.Upgrade)
}
