package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"indyscope/internal/models"
	"indyscope/internal/service"
)

type SettingsHandler struct {
	Settings *service.SettingsService
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/settings", h.get)
	r.PUT("/api/v1/settings", h.put)
}

func (h *SettingsHandler) get(c *gin.Context) {
	Ok(c, h.Settings.Load(c.Request.Context()), nil)
}

func (h *SettingsHandler) put(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		Error(c, http.StatusBadRequest, "invalid settings: "+err.Error(), nil)
		return
	}
	if err := h.Settings.Save(c.Request.Context(), settings); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, settings, nil)
}
