package http

import "github.com/gin-gonic/gin"

// Register registers the admin routes. The caller is expected to have
// attached the allow-list middleware to rg already.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/credits", h.UpdateCredits)
	rg.GET("/kms/test", h.KMSTest)
}
