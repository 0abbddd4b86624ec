package app

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odonto/admin-api/internal/config"
	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/pkg/logger"
)

var sundayNoon = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() *config.Config {
	return &config.Config{
		Server:        config.ServerConfig{Port: 8080, Mode: "test", RequestTimeout: 5 * time.Second},
		Notifications: config.NotificationsConfig{RefreshInterval: time.Hour},
		Agenda:        config.AgendaConfig{TickInterval: time.Minute, CacheTTL: time.Minute},
		RateLimit:     config.RateLimitConfig{RPS: 100, Burst: 100},
		Clinic: config.ClinicConfig{
			Dentists: []string{"Dra. Ana Letícia", "Dr. Carlos Silva"},
			Timezone: "UTC",
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	l := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: &bytes.Buffer{}})
	a, err := New(context.Background(), testConfig(), l, Options{
		Now:  func() time.Time { return sundayNoon },
		Rand: rand.New(rand.NewPCG(7, 7)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(t *testing.T, a *App, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router.Engine().ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestDemoModeByDefault(t *testing.T) {
	a := newTestApp(t)
	assert.True(t, a.Store.Demo())

	w, _ := do(t, a, http.MethodGet, "/api/v1/health/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"demo"`)
	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTodayAndConflict(t *testing.T) {
	a := newTestApp(t)

	w, env := do(t, a, http.MethodGet, "/api/v1/appointments/today", "")
	require.Equal(t, http.StatusOK, w.Code)
	var today []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &today))
	assert.Len(t, today, 3)

	w, env = do(t, a, http.MethodPost, "/api/v1/appointments",
		`{"patient_id":"p4","date":"2026-10-18","time":"09:00","dentist":"Dra. Ana Letícia"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Conflito — Dra. Ana Letícia já tem consulta às 09:00 nessa data.", env.Message)
}

func TestBindErrorUsesEnvelope(t *testing.T) {
	a := newTestApp(t)

	w, env := do(t, a, http.MethodPost, "/api/v1/appointments", `{"patient_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestPatientNotFound(t *testing.T) {
	a := newTestApp(t)

	w, env := do(t, a, http.MethodGet, "/api/v1/patients/p99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registro não encontrado: paciente.", env.Message)
}

func TestConfirmPaymentLowersPendingCount(t *testing.T) {
	a := newTestApp(t)

	count := func() int {
		w, env := do(t, a, http.MethodGet, "/api/v1/notifications/count", "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		return body.Count
	}

	assert.Equal(t, 3, count())

	w, env := do(t, a, http.MethodPost, "/api/v1/notifications/n1/confirm", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, env.Message)

	assert.Equal(t, 2, count())

	w, _ = do(t, a, http.MethodGet, "/api/v1/notifications", "")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)

	do(t, a, http.MethodGet, "/api/v1/health/live", "")
	w, _ := do(t, a, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), "odonto_")
}

func TestStartSubscribesAgendaCache(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Start(ctx))
}

func TestWebsocketPushesSnapshotAndChanges(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Router.Engine())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var frame struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "notifications", frame.Type)

	change := model.ChangeEvent{Collection: model.CollectionAppointments, Action: model.ChangeUpdate, ID: "n1"}
	require.NoError(t, a.Broker.Publish(context.Background(), model.ChangeChannel(model.CollectionAppointments), change))

	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "change", frame.Type)
	assert.Contains(t, string(frame.Payload), `"n1"`)
}
