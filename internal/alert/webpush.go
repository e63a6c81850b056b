package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/store"
	"valet-board-backend/internal/timing"
	"valet-board-backend/pkg/logger"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends through the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

type cueJob struct {
	ticket   model.Ticket
	severity timing.Severity
}

// WebPushCuer fans alert cues out to every push subscription of the ticket's
// store through a fixed pool of workers. Delivery is best-effort: a full job
// channel drops the cue rather than stalling a render pass.
type WebPushCuer struct {
	size    int
	jobs    chan cueJob
	store   store.Store
	options *webpush.Options
	sender  PushSender
	log     logger.Logger
}

// NewWebPushCuer creates a cuer with size workers.
func NewWebPushCuer(size int, s store.Store, options *webpush.Options, log logger.Logger) *WebPushCuer {
	return &WebPushCuer{
		size:    size,
		jobs:    make(chan cueJob, size),
		store:   s,
		options: options,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// SetSender swaps the delivery implementation, for tests.
func (wp *WebPushCuer) SetSender(s PushSender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WebPushCuer) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// Cue queues one alert for delivery.
func (wp *WebPushCuer) Cue(_ context.Context, ticket model.Ticket, severity timing.Severity) {
	select {
	case wp.jobs <- cueJob{ticket: ticket, severity: severity}:
	default:
		wp.log.Warn("cue queue full; dropping alert", "ticket", ticket.ID, "severity", severity.String())
	}
}

func (wp *WebPushCuer) worker(ctx context.Context, id int) {
	wp.log.Debug("push worker started", "worker", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(ctx, job)
		case <-ctx.Done():
			wp.log.Debug("push worker stopping", "worker", id)
			return
		}
	}
}

func (wp *WebPushCuer) deliver(ctx context.Context, job cueJob) {
	subs, err := wp.store.ListSubscriptions(ctx, job.ticket.StoreID)
	if err != nil {
		wp.log.Warn("listing subscriptions failed", "store", job.ticket.StoreID, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"title":    fmt.Sprintf("Tag %s is %s", job.ticket.TagNumber, job.severity.String()),
		"body":     fmt.Sprintf("%s has been waiting past the %s threshold", job.ticket.CustomerName, job.severity.String()),
		"ticketId": job.ticket.ID,
		"severity": job.severity.String(),
	})
	if err != nil {
		return
	}

	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WebPushCuer) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.options)
	if err != nil {
		wp.log.Warn("push delivery failed", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	// 410 Gone marks a subscription the browser has abandoned.
	if resp.StatusCode == http.StatusGone {
		wp.log.Info("deleting expired subscription", "endpoint", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Warn("expired subscription cleanup failed", "endpoint", sub.Endpoint, "error", err)
		}
	}
}
