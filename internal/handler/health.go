package handler

import (
	"github.com/gin-gonic/gin"

	"indyscope/internal/sde"
)

type HealthHandler struct {
	Data *sde.Dataset
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	Ok(c, gin.H{
		"status":          "ok",
		"name_index_keys": len(h.Data.NameKeys()),
	}, nil)
}
