package notify

import (
	"context"
	"encoding/json"

	"aptcare/backend/internal/config"
	"aptcare/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// StartPubSubListener subscribes to the events channel and feeds the hub.
// Runs until the context is cancelled.
func (h *Hub) StartPubSubListener(ctx context.Context, rdb *redis.Client) {
	go func() {
		pubsub := rdb.Subscribe(ctx, config.EventsChannel)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.ComplaintEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					h.log.Warn().Err(err).Msg("bad event payload on pubsub channel")
					continue
				}
				h.EventsCh <- ev
			}
		}
	}()
}
