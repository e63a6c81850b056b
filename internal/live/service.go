package live

import (
	"context"
	"sync/atomic"
	"time"

	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
	"valet-board-backend/pkg/metrics"
)

// Fetcher loads the complete current record set from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Consumer is invoked after every reload and on every render tick with the
// current snapshot. Consumers read the slice, never mutate it.
type Consumer[T any] func(items []T, now time.Time)

// Service keeps one table's pool synchronized. Two independent loops run per
// service: reloads (full refetch, wholesale replacement) on a short interval
// and on backend change pulses, and render passes on a longer interval that
// recompute derived values from already-cached data without network traffic.
type Service[T any] struct {
	table          store.Table
	fetch          Fetcher[T]
	pool           *Pool[T]
	signal         <-chan struct{}
	reloadInterval time.Duration
	renderInterval time.Duration
	consumers      []Consumer[T]
	generation     atomic.Uint64
	log            logger.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewService wires a synchronization service for one table. signal is the
// store's change-notification subscription for that table; it may be nil for
// poll-only operation.
func NewService[T any](table store.Table, fetch Fetcher[T], signal <-chan struct{}, reloadInterval, renderInterval time.Duration, log logger.Logger, m *metrics.Metrics) *Service[T] {
	return &Service[T]{
		table:          table,
		fetch:          fetch,
		pool:           NewPool[T](),
		signal:         signal,
		reloadInterval: reloadInterval,
		renderInterval: renderInterval,
		log:            log,
		metrics:        m,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Pool exposes the service's snapshot pool for read access.
func (s *Service[T]) Pool() *Pool[T] {
	return s.pool
}

// AddConsumer registers a render consumer. Must be called before Run.
func (s *Service[T]) AddConsumer(c Consumer[T]) {
	s.consumers = append(s.consumers, c)
}

// Run drives both loops until ctx is cancelled. Cancellation stops the
// timers; screens tearing down must cancel rather than leak intervals.
func (s *Service[T]) Run(ctx context.Context) {
	s.log.Info("sync service starting", "table", s.table,
		"reload_interval", s.reloadInterval, "render_interval", s.renderInterval)

	// Prime the pool before the first tick so consumers never see a
	// permanently empty board while waiting out the interval.
	s.ReloadOnce(ctx)

	go s.renderLoop(ctx)

	reload := time.NewTicker(s.reloadInterval)
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sync service stopping", "table", s.table)
			return
		case <-reload.C:
			s.ReloadOnce(ctx)
		case <-s.signal:
			// Change pulse carries no payload detail; same full reload path.
			s.ReloadOnce(ctx)
		}
	}
}

func (s *Service[T]) renderLoop(ctx context.Context) {
	render := time.NewTicker(s.renderInterval)
	defer render.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-render.C:
			s.renderOnce()
		}
	}
}

// ReloadOnce performs one full refetch and wholesale pool replacement. A
// failed query leaves the pool untouched; the next interval retries
// implicitly, with no backoff. Responses superseded by a newer applied
// generation are discarded.
func (s *Service[T]) ReloadOnce(ctx context.Context) {
	generation := s.generation.Add(1)

	items, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("pool reload failed; keeping previous snapshot",
			"table", s.table, "generation", generation, "error", err)
		if s.metrics != nil {
			s.metrics.Reloads.WithLabelValues(string(s.table), "error").Inc()
		}
		return
	}

	if !s.pool.apply(items, s.now(), generation) {
		s.log.Debug("discarding stale reload", "table", s.table, "generation", generation)
		if s.metrics != nil {
			s.metrics.StaleReloads.Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.Reloads.WithLabelValues(string(s.table), "ok").Inc()
	}
	s.renderOnce()
}

// renderOnce hands the current snapshot to every consumer.
func (s *Service[T]) renderOnce() {
	start := time.Now()
	items := s.pool.Items()
	now := s.now()
	for _, consume := range s.consumers {
		consume(items, now)
	}
	if s.metrics != nil {
		s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	}
}
