package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/where2play/calendar-api/internal/service"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
	"github.com/where2play/calendar-api/pkg/response"
)

// E2EHandler exposes destructive cleanup endpoints for end-to-end test
// runs. The route group is only mounted when test support is enabled.
type E2EHandler struct {
	events *service.EventService
}

// NewE2EHandler creates a new handler.
func NewE2EHandler(events *service.EventService) *E2EHandler {
	return &E2EHandler{events: events}
}

// HardDeleteEvent godoc
// @Summary Physically delete an event
// @Description Requires the X-E2E-Test header in addition to the server-side flag
// @Tags E2E
// @Param id path string true "Event id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /e2e-support/calendar/{id} [delete]
func (h *E2EHandler) HardDeleteEvent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	testRequest := strings.EqualFold(c.GetHeader("X-E2E-Test"), "true")
	if err := h.events.HardDelete(c.Request.Context(), claims.UserID, c.Param("id"), testRequest); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
