package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Description  Returns service liveness; never depends on Stripe reachability
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "stripe payments server is running",
	})
}

func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/health", Health)
}
