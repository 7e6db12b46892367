// Package realtime implementa el notificador de cambios: un hub en memoria que
// mantiene el registro de observadores conectados y reparte cada evento a todos.
//
// El registro vive en una sola goroutine (Run); altas, bajas y difusiones llegan
// por canales. Broadcast nunca bloquea: si la cola del hub o el buffer de un
// observador están llenos, el evento se descarta para ese destino.
package realtime

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Tareas-api/internal/application/ports"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
)

var _ ports.ChangeNotifier = (*Hub)(nil)

// ErrHubClosed el hub ya no acepta observadores.
var ErrHubClosed = errors.New("realtime: hub closed")

// Event evento entregado a un observador.
type Event struct {
	Kind entity.EventKind
	At   time.Time
}

// Subscriber observador registrado en el hub.
type Subscriber struct {
	id uint64
	ch chan Event
}

// ID identificador del observador dentro del hub.
func (s *Subscriber) ID() uint64 { return s.id }

// Events canal de eventos; se cierra al darse de baja o al detenerse el hub.
func (s *Subscriber) Events() <-chan Event { return s.ch }

// registration alta pendiente; Run cierra ack cuando el observador ya figura en el registro.
type registration struct {
	sub *Subscriber
	ack chan struct{}
}

// Hub difusor de eventos de cambio hacia todos los observadores conectados.
type Hub struct {
	register   chan registration
	unregister chan *Subscriber
	broadcast  chan Event
	done       chan struct{}

	buffer  int
	nextID  atomic.Uint64
	active  atomic.Int64
	dropped atomic.Uint64
	log     zerolog.Logger
	now     func() time.Time
}

// NewHub construye el hub. buffer es la cantidad de eventos pendientes por observador.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	queue := buffer * 4
	if queue < 64 {
		queue = 64
	}
	return &Hub{
		register:   make(chan registration),
		unregister: make(chan *Subscriber),
		broadcast:  make(chan Event, queue),
		done:       make(chan struct{}),
		buffer:     buffer,
		log:        log.With().Str("component", "realtime").Logger(),
		now:        time.Now,
	}
}

// Run atiende el registro hasta que ctx se cancela; entonces cierra todos los observadores.
// Debe ejecutarse en su propia goroutine y una sola vez.
func (h *Hub) Run(ctx context.Context) {
	subs := make(map[uint64]*Subscriber)
	defer func() {
		for id, s := range subs {
			close(s.ch)
			delete(subs, id)
		}
		h.active.Store(0)
		close(h.done)
		h.log.Info().Msg("hub detenido")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-h.register:
			s := r.sub
			subs[s.id] = s
			h.active.Store(int64(len(subs)))
			close(r.ack)
			h.log.Debug().Uint64("subscriber", s.id).Int("total", len(subs)).Msg("observador conectado")
		case s := <-h.unregister:
			if _, ok := subs[s.id]; ok {
				delete(subs, s.id)
				h.active.Store(int64(len(subs)))
				close(s.ch)
				h.log.Debug().Uint64("subscriber", s.id).Int("total", len(subs)).Msg("observador desconectado")
			}
		case ev := <-h.broadcast:
			for _, s := range subs {
				select {
				case s.ch <- ev:
				default:
					h.dropped.Add(1)
					h.log.Warn().Uint64("subscriber", s.id).Str("event", string(ev.Kind)).Msg("observador lento, evento descartado")
				}
			}
		}
	}
}

// Broadcast encola el evento para todos los observadores sin bloquear al llamador.
func (h *Hub) Broadcast(kind entity.EventKind) {
	ev := Event{Kind: kind, At: h.now()}
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- ev:
	default:
		h.dropped.Add(1)
		h.log.Warn().Str("event", string(kind)).Msg("cola del hub llena, evento descartado")
	}
}

// Subscribe registra un observador nuevo y vuelve cuando el hub ya lo cuenta.
// Bloquea como máximo hasta que ctx termine.
func (h *Hub) Subscribe(ctx context.Context) (*Subscriber, error) {
	s := &Subscriber{id: h.nextID.Add(1), ch: make(chan Event, h.buffer)}
	r := registration{sub: s, ack: make(chan struct{})}
	select {
	case h.register <- r:
		// Run cierra ack en el mismo paso en que recibe el alta.
		<-r.ack
		return s, nil
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unsubscribe da de baja al observador y cierra su canal. Es seguro llamarlo tras detener el hub.
func (h *Hub) Unsubscribe(s *Subscriber) {
	if s == nil {
		return
	}
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Done se cierra cuando Run terminó.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Subscribers cantidad de observadores conectados.
func (h *Hub) Subscribers() int { return int(h.active.Load()) }

// Dropped cantidad acumulada de entregas descartadas.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
