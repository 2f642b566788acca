package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform body for every endpoint: data on success,
// error on failure, meta riding along either way. Omitted fields are
// dropped from the JSON entirely.
type envelope struct {
	Data  any            `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, envelope{Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, envelope{Error: message, Meta: meta})
}
