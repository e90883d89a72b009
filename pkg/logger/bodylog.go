package logger

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxLoggedBody caps how much of a request or response body is logged.
const maxLoggedBody = 64 * 1024

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxLoggedBody {
		remaining := maxLoggedBody - w.body.Len()
		if len(b) > remaining {
			w.body.Write(b[:remaining])
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// BodyLogMiddleware logs request and response bodies for URIs enabled in
// the settings store. The store is queried once per request.
func BodyLogMiddleware(l *zap.Logger, settings *Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !settings.EnabledForURI(c.Request.URL.Path) {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), c.Request.Body))
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		l.Info("http_request_body",
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.ByteString("body", requestBody),
		)

		c.Next()

		l.Info("http_response_body",
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.Int("status", writer.Status()),
			zap.ByteString("body", writer.body.Bytes()),
		)
	}
}
