// Package realtime pushes change events, notification refreshes and the agenda
// clock to connected browsers over a websocket.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/odonto/admin-api/internal/model"
	"github.com/odonto/admin-api/internal/service/agenda"
	"github.com/odonto/admin-api/internal/service/notification"
	"github.com/odonto/admin-api/pkg/httputil"
	"github.com/odonto/admin-api/pkg/messaging"
	"github.com/odonto/admin-api/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	MessageChange        = "change"
	MessageNotifications = "notifications"
	MessageClock         = "clock"
)

// Collections whose change feed is forwarded to clients.
var Collections = []string{
	model.CollectionAppointments,
	model.CollectionPatients,
	model.CollectionProcedures,
	model.CollectionTransactions,
	model.CollectionProntuarioEntries,
	model.CollectionProntuarioFiles,
}

type Config struct {
	// TickInterval drives the current-time indicator.
	TickInterval time.Duration
	Now          func() time.Time
	Location     *time.Location
}

type Handler struct {
	broker        messaging.Broker
	notifications notification.Service
	agenda        agenda.Service
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	upgrader      websocket.Upgrader
	tick          time.Duration
	now           func() time.Time
	loc           *time.Location
}

func NewHandler(
	broker messaging.Broker,
	notifications notification.Service,
	agendaService agenda.Service,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Handler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Handler{
		broker:        broker,
		notifications: notifications,
		agenda:        agendaService,
		metrics:       m,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tick: cfg.TickInterval,
		now:  cfg.Now,
		loc:  cfg.Location,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.Serve)
}

// Serve upgrades the request. Query: view=agenda enables clock frames for
// the week containing start (today when empty).
func (h *Handler) Serve(c *gin.Context) {
	var weekStart time.Time
	agendaView := c.Query("view") == "agenda"
	if agendaView {
		weekStart = agenda.GoToday(h.now().In(h.loc))
		if start := c.Query("start"); start != "" {
			t, err := agenda.JumpTo(start, h.loc)
			if err != nil {
				httputil.RespondWithBadRequest(c, "Data inválida.")
				return
			}
			weekStart = t
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WebsocketClients.Inc()
		defer h.metrics.WebsocketClients.Dec()
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	out, err := h.subscribe(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("realtime subscribe failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(writeWait))
		return
	}

	go h.readPump(conn, cancel)

	s := &session{conn: conn, logger: h.logger}
	if list, err := h.notifications.List(ctx); err == nil {
		s.send(messaging.Message{Type: MessageNotifications, Payload: list})
	}
	if agendaView {
		s.send(h.clock(weekStart))
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	var tickC <-chan time.Time
	if agendaView {
		tick := time.NewTicker(h.tick)
		defer tick.Stop()
		tickC = tick.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				return
			}
			if !s.writeRaw(msg) {
				return
			}
		case <-tickC:
			if !s.send(h.clock(weekStart)) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type clockPayload struct {
	Visible   bool              `json:"visible"`
	Indicator *agenda.Indicator `json:"indicator,omitempty"`
}

func (h *Handler) clock(weekStart time.Time) messaging.Message {
	var p clockPayload
	if ind, ok := h.agenda.Indicator(weekStart); ok {
		p = clockPayload{Visible: true, Indicator: &ind}
	}
	return messaging.Message{Type: MessageClock, Payload: p}
}

// subscribe merges every change feed and the notifications channel into one
// stream of ready-to-send frames. All subscriptions end with ctx.
func (h *Handler) subscribe(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte, 16)

	forward := func(ch <-chan []byte, wrap bool) {
		for raw := range ch {
			frame := raw
			if wrap {
				b, err := json.Marshal(messaging.Message{Type: MessageChange, Payload: json.RawMessage(raw)})
				if err != nil {
					continue
				}
				frame = b
			}
			select {
			case out <- frame:
			case <-ctx.Done():
				return
			}
		}
	}

	for _, col := range Collections {
		ch, err := h.broker.Subscribe(ctx, model.ChangeChannel(col))
		if err != nil {
			return nil, err
		}
		go forward(ch, true)
	}
	ch, err := h.broker.Subscribe(ctx, model.NotificationsChannel)
	if err != nil {
		return nil, err
	}
	go forward(ch, false)

	return out, nil
}

func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("websocket closed")
			}
			return
		}
	}
}

type session struct {
	conn   *websocket.Conn
	logger zerolog.Logger
}

func (s *session) send(msg messaging.Message) bool {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal frame")
		return true
	}
	return s.writeRaw(b)
}

func (s *session) writeRaw(b []byte) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, b) == nil
}
