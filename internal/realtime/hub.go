package realtime

import (
	"context"
	"sync"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	model "taskforge.app/taskforge/internal/models"
)

// Event is the invalidation signal delivered to subscribers. It carries
// no diff, only the affected table.
type Event struct {
	Table model.Kind `json:"table"`
}

// Hub relays change signals from the Redis channels to any number of
// subscribers. Slow subscribers lose events instead of blocking the
// feed; a dropped invalidation is recovered by the next one or by the
// subscriber's own periodic fetch.
type Hub struct {
	client rueidis.Client
	log    *zap.SugaredLogger

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub(client rueidis.Client, log *zap.SugaredLogger) *Hub {
	return &Hub{
		client: client,
		log:    log,
		subs:   make(map[chan Event]struct{}),
	}
}

// Run blocks receiving from the per-table channels until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	err := h.client.Receive(
		ctx,
		h.client.B().Subscribe().Channel(Channel(model.KindTasks), Channel(model.KindPosts)).Build(),
		func(msg rueidis.PubSubMessage) {
			h.Broadcast(Event{Table: model.Kind(msg.Message)})
		},
	)
	if err != nil && ctx.Err() == nil {
		h.log.Errorw("change feed receive ended", "error", err)
		return err
	}
	return nil
}

// Subscribe registers a consumer. The returned cancel func must be
// called when the consumer goes away; the channel is closed by it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}

	return ch, cancel
}

func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// subscriber is behind; drop
		}
	}
}
