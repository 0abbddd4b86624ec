package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	base := zerolog.New(buf)
	engine := gin.New()
	engine.Use(RequestID(base), Logger(base))
	engine.GET("/ping", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("handler")
		c.Status(http.StatusNoContent)
	})
	return engine
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestIDKeepsCallerID(t *testing.T) {
	var buf bytes.Buffer
	engine := newRequestIDEngine(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "handler", lines[0]["message"])
	assert.Equal(t, "request processed", lines[1]["message"])
	for _, l := range lines {
		assert.Equal(t, "abc-123", l["request_id"])
	}
}

func TestRequestIDReplacesMissingOrOversized(t *testing.T) {
	for _, header := range []string{"", strings.Repeat("x", maxRequestIDLen+1)} {
		var buf bytes.Buffer
		engine := newRequestIDEngine(&buf)

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set(HeaderXRequestID, header)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		rid := w.Header().Get(HeaderXRequestID)
		_, err := uuid.Parse(rid)
		require.NoError(t, err)
		assert.Equal(t, rid, logLines(t, &buf)[0]["request_id"])
	}
}

func TestRequestLoggerFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	log := RequestLogger(c, zerolog.New(&buf))
	log.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "request_id")
}
