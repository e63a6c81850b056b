package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
)

func TestPool_ApplyAndRead(t *testing.T) {
	p := NewPool[int]()
	assert.Empty(t, p.Items())
	assert.Zero(t, p.Generation())

	loaded := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	require.True(t, p.apply([]int{1, 2, 3}, loaded, 1))
	assert.Equal(t, []int{1, 2, 3}, p.Items())
	assert.Equal(t, loaded, p.LoadedAt())
	assert.Equal(t, uint64(1), p.Generation())
}

func TestPool_WholesaleReplacement(t *testing.T) {
	p := NewPool[string]()
	now := time.Now()
	require.True(t, p.apply([]string{"a", "b"}, now, 1))
	require.True(t, p.apply([]string{"c"}, now, 2))

	// Records absent from the newer snapshot are gone, not merged.
	assert.Equal(t, []string{"c"}, p.Items())
}

func TestPool_StaleGenerationDiscarded(t *testing.T) {
	p := NewPool[int]()
	now := time.Now()
	require.True(t, p.apply([]int{2}, now, 2))

	// A slow response from an earlier reload lands after a fresher one.
	assert.False(t, p.apply([]int{1}, now.Add(time.Second), 1))
	assert.Equal(t, []int{2}, p.Items())
	assert.Equal(t, uint64(2), p.Generation())

	// Equal generation is stale too.
	assert.False(t, p.apply([]int{9}, now, 2))
}

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	items []int
	err   error
}

func (f *countingFetcher) fetch(context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.items, f.err
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(f *countingFetcher, signal <-chan struct{}) *Service[int] {
	return NewService(store.TableTickets, f.fetch, signal, time.Hour, time.Hour, logger.NewNop(), nil)
}

func TestService_ReloadOncePopulatesPool(t *testing.T) {
	f := &countingFetcher{items: []int{7, 8}}
	s := newTestService(f, nil)

	s.ReloadOnce(context.Background())
	assert.Equal(t, []int{7, 8}, s.Pool().Items())
	assert.Equal(t, 1, f.count())
}

func TestService_FailedReloadKeepsSnapshot(t *testing.T) {
	f := &countingFetcher{items: []int{1}}
	s := newTestService(f, nil)
	s.ReloadOnce(context.Background())

	f.mu.Lock()
	f.err = errors.New("backend down")
	f.mu.Unlock()

	s.ReloadOnce(context.Background())
	assert.Equal(t, []int{1}, s.Pool().Items(), "failed reload must not clear the pool")
	assert.Equal(t, uint64(1), s.Pool().Generation())
}

func TestService_ConsumersSeeEveryReload(t *testing.T) {
	f := &countingFetcher{items: []int{5}}
	s := newTestService(f, nil)

	var mu sync.Mutex
	var seen [][]int
	s.AddConsumer(func(items []int, _ time.Time) {
		mu.Lock()
		seen = append(seen, items)
		mu.Unlock()
	})

	s.ReloadOnce(context.Background())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, []int{5}, seen[0])
}

func TestService_ChangePulseTriggersReload(t *testing.T) {
	f := &countingFetcher{items: []int{1}}
	notifier := store.NewNotifier()
	s := newTestService(f, notifier.Subscribe(store.TableTickets))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Run primes the pool once, then the pulse forces a second reload well
	// before the hour-long poll interval.
	notifier.Pulse(store.TableTickets)
	assert.Eventually(t, func() bool { return f.count() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
