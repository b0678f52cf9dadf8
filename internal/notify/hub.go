// Package notify fans complaint lifecycle events out to connected admin
// dashboards (websocket) and side-channel notifiers (Telegram). Events
// arrive over Redis pub/sub so every API instance sees every event.
package notify

import (
	"aptcare/backend/internal/models"

	"github.com/rs/zerolog"
)

// Client is one connected event consumer. Deliver must not block; it
// reports false when the client cannot keep up and should be dropped.
type Client interface {
	Deliver(ev models.ComplaintEvent) bool
	Close()
}

// Notifier receives every event synchronously on the hub goroutine;
// implementations hand off to their own goroutine if delivery is slow.
type Notifier interface {
	NotifyEvent(ev models.ComplaintEvent)
}

type Hub struct {
	clients map[Client]struct{}

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ComplaintEvent

	notifiers []Notifier
	log       zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:      make(map[Client]struct{}),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ComplaintEvent, 64),
		log:          log,
	}
}

// AddNotifier must be called before Run.
func (h *Hub) AddNotifier(n Notifier) {
	h.notifiers = append(h.notifiers, n)
}

// Run is the hub dispatcher; it owns the clients map.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.RegisterCh:
			h.clients[c] = struct{}{}
			h.log.Debug().Int("clients", len(h.clients)).Msg("feed client connected")

		case c := <-h.UnregisterCh:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}

		case ev := <-h.EventsCh:
			for _, n := range h.notifiers {
				n.NotifyEvent(ev)
			}
			for c := range h.clients {
				if !c.Deliver(ev) {
					delete(h.clients, c)
					c.Close()
				}
			}
		}
	}
}
