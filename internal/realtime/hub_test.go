package realtime

import (
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	model "taskforge.app/taskforge/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestChannelNames(t *testing.T) {
	if got := Channel(model.KindTasks); got != "taskforge:changes:tasks" {
		t.Errorf("unexpected channel name %s", got)
	}
	if got := Channel(model.KindPosts); got != "taskforge:changes:posts" {
		t.Errorf("unexpected channel name %s", got)
	}
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	h := NewHub(nil, zap.NewNop().Sugar())

	first, cancelFirst := h.Subscribe()
	second, cancelSecond := h.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	h.Broadcast(Event{Table: model.KindTasks})

	for _, ch := range []<-chan Event{first, second} {
		ev := <-ch
		if ev.Table != model.KindTasks {
			t.Errorf("expected tasks event, got %q", ev.Table)
		}
	}
}

func TestHub_CancelClosesChannelAndStopsDelivery(t *testing.T) {
	h := NewHub(nil, zap.NewNop().Sugar())

	ch, cancel := h.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after cancel")
	}

	// a second cancel is a no-op, and broadcasting after cancel must not
	// panic on the closed channel
	cancel()
	h.Broadcast(Event{Table: model.KindPosts})
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(nil, zap.NewNop().Sugar())

	ch, cancel := h.Subscribe()
	defer cancel()

	// fill the buffer and keep going; extra events are dropped
	for i := 0; i < cap(ch)+5; i++ {
		h.Broadcast(Event{Table: model.KindTasks})
	}

	received := 0
	for len(ch) > 0 {
		<-ch
		received++
	}
	if received != cap(ch) {
		t.Errorf("expected exactly the buffered %d events, got %d", cap(ch), received)
	}
}
