package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/where2play/calendar-api/internal/provider"
	appErrors "github.com/where2play/calendar-api/pkg/errors"
	"github.com/where2play/calendar-api/pkg/response"
)

// GoogleHandler drives the OAuth flow for connecting a Google Calendar.
type GoogleHandler struct {
	client *provider.GoogleCalendarClient
}

// NewGoogleHandler creates a new handler.
func NewGoogleHandler(client *provider.GoogleCalendarClient) *GoogleHandler {
	return &GoogleHandler{client: client}
}

// AuthorizationURL godoc
// @Summary Begin the Google Calendar OAuth flow
// @Tags Google
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/google/authorize [get]
func (h *GoogleHandler) AuthorizationURL(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	// state carries the user id back through the provider redirect
	url := h.client.AuthorizationURL(claims.UserID)
	response.JSON(c, http.StatusOK, gin.H{"authorization_url": url}, nil)
}

// Callback godoc
// @Summary Complete the Google Calendar OAuth flow
// @Tags Google
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/google/callback [get]
func (h *GoogleHandler) Callback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	code := c.Query("code")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "query parameter code is required"))
		return
	}

	if err := h.client.ExchangeCode(c.Request.Context(), claims.UserID, code); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrProviderUnavailable.Code, appErrors.ErrProviderUnavailable.Status, "failed to exchange authorization code"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"connected": true}, nil)
}

// Status godoc
// @Summary Whether the caller has connected a Google Calendar
// @Tags Google
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/google/status [get]
func (h *GoogleHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"connected": h.client.IsAuthorized(claims.UserID)}, nil)
}

// Disconnect godoc
// @Summary Drop the caller's Google Calendar connection
// @Tags Google
// @Success 204 {object} response.Envelope
// @Router /calendar/google/connection [delete]
func (h *GoogleHandler) Disconnect(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.client.Disconnect(claims.UserID)
	response.NoContent(c)
}
