package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
)

const (
	eventsWriteWait    = 5 * time.Second
	eventsPingInterval = 30 * time.Second
)

// EventsHandler conexión WebSocket por la que cada cliente autenticado recibe
// {"event": kind} después de cada mutación de tareas.
type EventsHandler struct {
	hub *realtime.Hub
	log zerolog.Logger
}

// NewEventsHandler construye el handler.
func NewEventsHandler(hub *realtime.Hub, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// RequireUpgrade godoc
// @Summary      Suscribirse a eventos de cambio (WebSocket)
// @Description  Mensajes {"event":"taskCreated|taskUpdated|taskDeleted"}. Token por Authorization o ?token=.
// @Tags         events
// @Security     Bearer
// @Param        token  query  string  false  "JWT para clientes sin header Authorization"
// @Success      101
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      426  {object}  dto.ErrorResponse
// @Router       /api/events [get]
func (h *EventsHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fail(c, fiber.StatusUpgradeRequired, "UPGRADE_REQUIRED", "websocket upgrade required")
	}
	return c.Next()
}

// Stream registra al cliente en el hub y le reenvía los eventos hasta que se desconecte.
func (h *EventsHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		log := h.log.With().Str("user_id", userID).Logger()

		ctx, cancel := context.WithTimeout(context.Background(), eventsWriteWait)
		sub, err := h.hub.Subscribe(ctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("no se pudo registrar observador")
			return
		}
		defer h.hub.Unsubscribe(sub)

		// El cliente no envía nada; leer solo sirve para detectar el cierre.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(eventsPingInterval)
		defer ping.Stop()

		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
				if err := conn.WriteJSON(dto.EventMessage{Event: string(ev.Kind)}); err != nil {
					log.Debug().Err(err).Msg("observador desconectado al escribir")
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
					return
				}
			case <-closed:
				return
			}
		}
	})
}
