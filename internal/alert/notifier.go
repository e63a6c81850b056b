package alert

import (
	"context"
	"sync"
	"time"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/timing"
	"valet-board-backend/pkg/logger"
	"valet-board-backend/pkg/metrics"
)

// Cuer delivers one alert cue to whoever is listening for a store.
type Cuer interface {
	Cue(ctx context.Context, ticket model.Ticket, severity timing.Severity)
}

// Notifier watches severity tiers across render passes and fires a cue when a
// ticket crosses into an alertable tier it was not already at. The per-ticket
// record is updated after every pass, so a ticket sitting at red stays silent
// until something actually changes.
type Notifier struct {
	mu   sync.Mutex
	seen map[string]timing.Severity

	cuer    Cuer
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewNotifier creates a notifier delivering through the given cuer.
func NewNotifier(cuer Cuer, log logger.Logger, m *metrics.Metrics) *Notifier {
	return &Notifier{
		seen:    make(map[string]timing.Severity),
		cuer:    cuer,
		log:     log,
		metrics: m,
	}
}

// Observe evaluates one render pass over the active ticket subset. It has the
// consumer signature so it can hang off a sync service directly. Entries are
// never pruned; the map is bounded by tickets seen this session.
func (n *Notifier) Observe(tickets []model.Ticket, now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, t := range tickets {
		severity := timing.Classify(timing.MasterDuration(&t, now))
		// Untracked tickets start from the zero tier, so a first observation
		// already at orange still counts as a crossing. Downward regressions
		// never cue.
		if stored := n.seen[t.ID]; severity.Alertable() && severity > stored {
			n.log.Info("severity alert", "ticket", t.ID, "tag", t.TagNumber, "severity", severity.String())
			if n.metrics != nil {
				n.metrics.AlertsFired.Inc()
			}
			if n.cuer != nil {
				n.cuer.Cue(context.Background(), t, severity)
			}
		}
		n.seen[t.ID] = severity
	}
}
