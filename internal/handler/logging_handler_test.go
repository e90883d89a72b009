package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/where2play/calendar-api/pkg/logger"
)

func newLoggingContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestLoggingHandlerStatus(t *testing.T) {
	settings := logger.NewSettings(true, map[string]bool{"/api/events/*": false})
	handler := NewLoggingHandler(settings)

	c, w := newLoggingContext(t, http.MethodGet, "/api/logging", nil)
	handler.Status(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data loggingStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.GlobalEnabled)
	assert.Equal(t, map[string]bool{"/api/events/*": false}, envelope.Data.Endpoints)
}

func TestLoggingHandlerSetGlobal(t *testing.T) {
	settings := logger.NewSettings(true, nil)
	handler := NewLoggingHandler(settings)

	c, w := newLoggingContext(t, http.MethodPut, "/api/logging", map[string]bool{"enabled": false})
	handler.SetGlobal(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, settings.GlobalEnabled())
}

func TestLoggingHandlerSetGlobalMissingFlag(t *testing.T) {
	settings := logger.NewSettings(true, nil)
	handler := NewLoggingHandler(settings)

	c, w := newLoggingContext(t, http.MethodPut, "/api/logging", map[string]string{})
	handler.SetGlobal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, settings.GlobalEnabled())
}

func TestLoggingHandlerSetEndpoint(t *testing.T) {
	settings := logger.NewSettings(true, nil)
	handler := NewLoggingHandler(settings)

	c, w := newLoggingContext(t, http.MethodPut, "/api/logging/endpoint", map[string]interface{}{
		"pattern": "/api/events/*",
		"enabled": false,
	})
	handler.SetEndpoint(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, settings.EnabledForURI("/api/events/42"))
	assert.True(t, settings.EnabledForURI("/api/users/me"))
}

func TestLoggingHandlerReset(t *testing.T) {
	settings := logger.NewSettings(false, map[string]bool{"/api/events": true})
	handler := NewLoggingHandler(settings)

	c, w := newLoggingContext(t, http.MethodPost, "/api/logging/reset", nil)
	handler.Reset(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, settings.GlobalEnabled())
	assert.Empty(t, settings.EndpointSettings())
}
