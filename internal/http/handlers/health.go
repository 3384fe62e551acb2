package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping func() error
}

func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ready additionally checks the store round trip.
func (h *HealthHandler) Ready(ctx *gin.Context) {
	if h.ping != nil {
		err := h.ping()

		if err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
