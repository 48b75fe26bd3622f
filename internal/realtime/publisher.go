// Package realtime carries the change feed: repositories publish an
// invalidation signal per mutated table, the hub fans it out to
// in-process consumers and websocket subscribers. The signal names the
// table and nothing else; consumers re-fetch.
package realtime

import (
	"context"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	model "taskforge.app/taskforge/internal/models"
)

const channelPrefix = "taskforge:changes:"

func Channel(kind model.Kind) string {
	return channelPrefix + string(kind)
}

// Publisher implements repository.ChangeNotifier over Redis pub/sub.
type Publisher struct {
	client rueidis.Client
	log    *zap.SugaredLogger
}

func NewPublisher(client rueidis.Client, log *zap.SugaredLogger) *Publisher {
	return &Publisher{client: client, log: log}
}

// NotifyChanged is best-effort: a lost signal only delays consumers
// until their next full fetch, so failures are logged, not returned.
func (p *Publisher) NotifyChanged(ctx context.Context, kind model.Kind) {
	err := p.client.Do(
		ctx,
		p.client.B().Publish().Channel(Channel(kind)).Message(string(kind)).Build(),
	).Error()
	if err != nil {
		p.log.Warnw("change signal publish failed", "kind", kind, "error", err)
	}
}
