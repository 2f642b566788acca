package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"indyscope/internal/models"
	"indyscope/internal/service"
)

type AnalyzeHandler struct {
	Analyzer *service.Analyzer
	Settings *service.SettingsService
	Logger   *zap.Logger
}

func (h *AnalyzeHandler) Register(r *gin.Engine) {
	r.POST("/api/v1/analyze", h.analyze)
}

type analyzeRequest struct {
	Text         string           `json:"text" binding:"required"`
	ForceRefresh bool             `json:"force_refresh"`
	Settings     *models.Settings `json:"settings"` // full snapshot; nil uses the stored one
}

func (h *AnalyzeHandler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request: "+err.Error(), nil)
		return
	}

	settings := h.Settings.Load(c.Request.Context())
	if req.Settings != nil {
		settings = *req.Settings
	}

	results := h.Analyzer.AnalyzeText(c.Request.Context(), req.Text, settings, req.ForceRefresh)
	resolvedCount := 0
	for _, res := range results {
		if res.NotFound == "" {
			resolvedCount++
		}
	}
	Ok(c, results, map[string]any{
		"lines":    len(results),
		"resolved": resolvedCount,
	})
}
