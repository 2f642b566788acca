package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"indyscope/internal/service"
)

type WatchlistHandler struct {
	Watchlist *service.Watchlist
}

func (h *WatchlistHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/watchlist", h.list)
	r.POST("/api/v1/watchlist", h.add)
	r.DELETE("/api/v1/watchlist/:type_id", h.remove)
}

func (h *WatchlistHandler) list(c *gin.Context) {
	items, err := h.Watchlist.List(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}

func (h *WatchlistHandler) add(c *gin.Context) {
	var item service.WatchItem
	if err := c.ShouldBindJSON(&item); err != nil || item.TypeID == 0 {
		Error(c, http.StatusBadRequest, "type_id is required", nil)
		return
	}
	if err := h.Watchlist.Add(c.Request.Context(), item); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *WatchlistHandler) remove(c *gin.Context) {
	typeID, err := strconv.ParseInt(c.Param("type_id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid type_id", nil)
		return
	}
	if err := h.Watchlist.Remove(c.Request.Context(), typeID); err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"removed": typeID}, nil)
}
