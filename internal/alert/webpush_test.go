package alert

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/store"
	"valet-board-backend/internal/timing"
	"valet-board-backend/pkg/logger"
)

type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

type subStore struct {
	mu      sync.Mutex
	subs    []model.PushSubscription
	deleted []string
}

func (s *subStore) InsertTicket(context.Context, *model.Ticket) error { return nil }
func (s *subStore) UpdateTicket(context.Context, string, string, store.Patch) (int64, error) {
	return 0, nil
}
func (s *subStore) ListTickets(context.Context, string) ([]model.Ticket, error) { return nil, nil }
func (s *subStore) InsertSalesPickup(context.Context, *model.SalesPickup) error { return nil }
func (s *subStore) UpdateSalesPickup(context.Context, string, string, store.Patch) (int64, error) {
	return 0, nil
}
func (s *subStore) ListSalesPickups(context.Context, string) ([]model.SalesPickup, error) {
	return nil, nil
}
func (s *subStore) InsertAuditEvent(context.Context, *model.AuditEvent) error       { return nil }
func (s *subStore) SaveSubscription(context.Context, *model.PushSubscription) error { return nil }

func (s *subStore) DeleteSubscription(_ context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, endpoint)
	return nil
}

func (s *subStore) ListSubscriptions(context.Context, string) ([]model.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs, nil
}

func (s *subStore) Notifier() *store.Notifier { return nil }

func okResponse(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func alertTicket() model.Ticket {
	return model.Ticket{ID: "t1", StoreID: "store-1", TagNumber: "T-42", CustomerName: "Jordan"}
}

func TestWebPushCuer_DeliversToEverySubscription(t *testing.T) {
	fs := &subStore{subs: []model.PushSubscription{
		{Endpoint: "https://push.example/a", StoreID: "store-1", P256DH: "k1", Auth: "a1"},
		{Endpoint: "https://push.example/b", StoreID: "store-1", P256DH: "k2", Auth: "a2"},
	}}

	cuer := NewWebPushCuer(1, fs, &webpush.Options{}, logger.NewNop())

	var mu sync.Mutex
	var endpoints []string
	var wg sync.WaitGroup
	wg.Add(2)
	cuer.SetSender(&mockSender{SendFunc: func(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
		mu.Lock()
		endpoints = append(endpoints, sub.Endpoint)
		mu.Unlock()
		assert.Contains(t, string(payload), "T-42")
		wg.Done()
		return okResponse(http.StatusCreated), nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cuer.Start(ctx)

	cuer.Cue(ctx, alertTicket(), timing.SeverityOrange)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"https://push.example/a", "https://push.example/b"}, endpoints)
}

func TestWebPushCuer_DeletesExpiredSubscription(t *testing.T) {
	fs := &subStore{subs: []model.PushSubscription{
		{Endpoint: "https://push.example/stale", StoreID: "store-1", P256DH: "k", Auth: "a"},
	}}

	cuer := NewWebPushCuer(1, fs, &webpush.Options{}, logger.NewNop())
	cuer.SetSender(&mockSender{SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
		return okResponse(http.StatusGone), nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cuer.Start(ctx)

	cuer.Cue(ctx, alertTicket(), timing.SeverityRed)

	require.Eventually(t, func() bool {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		return len(fs.deleted) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "https://push.example/stale", fs.deleted[0])
}

func TestWebPushCuer_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	fs := &subStore{}
	cuer := NewWebPushCuer(1, fs, &webpush.Options{}, logger.NewNop())
	// Workers never started; the buffered channel holds one job.

	cuer.Cue(context.Background(), alertTicket(), timing.SeverityOrange)
	done := make(chan struct{})
	go func() {
		cuer.Cue(context.Background(), alertTicket(), timing.SeverityRed)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cue blocked on a full queue")
	}
}
