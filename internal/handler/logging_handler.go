package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/where2play/calendar-api/pkg/errors"
	"github.com/where2play/calendar-api/pkg/logger"
	"github.com/where2play/calendar-api/pkg/response"
)

// LoggingHandler exposes the runtime request/response logging toggles.
type LoggingHandler struct {
	settings *logger.Settings
}

// NewLoggingHandler creates a new handler.
func NewLoggingHandler(settings *logger.Settings) *LoggingHandler {
	return &LoggingHandler{settings: settings}
}

type loggingStatus struct {
	GlobalEnabled bool            `json:"global_enabled"`
	Endpoints     map[string]bool `json:"endpoints"`
}

// Status godoc
// @Summary Current request/response logging configuration
// @Tags Logging
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /logging [get]
func (h *LoggingHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, loggingStatus{
		GlobalEnabled: h.settings.GlobalEnabled(),
		Endpoints:     h.settings.EndpointSettings(),
	}, nil)
}

// SetGlobal godoc
// @Summary Toggle request/response logging globally
// @Tags Logging
// @Accept json
// @Produce json
// @Param payload body object true "enabled flag"
// @Success 200 {object} response.Envelope
// @Router /logging [put]
func (h *LoggingHandler) SetGlobal(c *gin.Context) {
	var payload struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "enabled flag is required"))
		return
	}

	h.settings.SetGlobalEnabled(*payload.Enabled)
	h.Status(c)
}

// SetEndpoint godoc
// @Summary Override logging for one endpoint pattern
// @Description Patterns are exact URIs or trailing wildcards such as /api/events/*
// @Tags Logging
// @Accept json
// @Produce json
// @Param payload body object true "pattern and enabled flag"
// @Success 200 {object} response.Envelope
// @Router /logging/endpoint [put]
func (h *LoggingHandler) SetEndpoint(c *gin.Context) {
	var payload struct {
		Pattern string `json:"pattern" binding:"required"`
		Enabled *bool  `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "pattern and enabled flag are required"))
		return
	}

	h.settings.SetEndpointEnabled(payload.Pattern, *payload.Enabled)
	h.Status(c)
}

// Reset godoc
// @Summary Restore default logging configuration
// @Tags Logging
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /logging/reset [post]
func (h *LoggingHandler) Reset(c *gin.Context) {
	h.settings.Reset()
	h.Status(c)
}
