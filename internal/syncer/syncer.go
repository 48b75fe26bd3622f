// Package syncer pushes locally pending collections back to the remote
// store. The cache marker tells it when there is anything to do; a pass
// upserts both collections by primary key and flips the marker to
// synced. Upserts are idempotent, so a pass that partially failed is
// simply repeated on the next tick.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"taskforge.app/taskforge/internal/cache"
	model "taskforge.app/taskforge/internal/models"
	"taskforge.app/taskforge/internal/services"
)

type Syncer struct {
	cache      cache.Store
	taskRemote services.TaskRemote
	postRemote services.PostRemote
	interval   time.Duration
	maxTries   uint
	log        *zap.SugaredLogger

	stop chan struct{}
	wg   sync.WaitGroup
}

func New(
	c cache.Store,
	taskRemote services.TaskRemote,
	postRemote services.PostRemote,
	interval time.Duration,
	log *zap.SugaredLogger,
) *Syncer {
	s := &Syncer{
		cache:      c,
		taskRemote: taskRemote,
		postRemote: postRemote,
		interval:   interval,
		maxTries:   5,
		log:        log,
	}

	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.loop()

	return s
}

func (s *Syncer) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.SyncOnce(context.Background()); err != nil {
				s.log.Warnw("reconciliation pass failed", "error", err)
			}
		case <-s.stop:
			return
		}
	}
}

// SyncOnce runs one reconciliation pass. It is a no-op unless the sync
// marker is pending. The whole pass retries under bounded exponential
// backoff; only after every pending record was confirmed remotely does
// the marker flip to synced.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	if s.cache.SyncState(ctx) != model.SyncPending {
		return nil
	}

	push := func() (struct{}, error) {
		return struct{}{}, s.push(ctx)
	}

	_, err := backoff.Retry(
		ctx,
		push,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.maxTries),
	)
	if err != nil {
		return err
	}

	if err := s.cache.MarkSynced(ctx); err != nil {
		return err
	}

	s.log.Infow("pending collections reconciled")
	return nil
}

func (s *Syncer) push(ctx context.Context) error {
	if tasks := s.cache.ReadTasks(ctx, nil); tasks != nil {
		if err := s.taskRemote.UpsertBulk(ctx, tasks); err != nil {
			return err
		}
	}

	if posts := s.cache.ReadPosts(ctx, nil); posts != nil {
		if err := s.postRemote.UpsertBulk(ctx, posts); err != nil {
			return err
		}
	}

	return nil
}

func (s *Syncer) Shutdown(ctx context.Context) {
	close(s.stop)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Infow("syncer shut down cleanly")
	case <-ctx.Done():
		s.log.Warnw("syncer shutdown timed out")
	}
}
