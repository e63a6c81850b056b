package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/audit"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
)

// ErrReadOnlyRole marks a mutation attempted without write rights.
var ErrReadOnlyRole = errors.New("sales: role has no mutation rights")

// ErrUnknownDriver marks driver-on-the-way naming someone off the roster.
var ErrUnknownDriver = errors.New("sales: driver not on roster")

// Dispatcher routes sales actions into transitions and submits patches. The
// store reports rows affected so "update blocked (0 rows)" is distinguishable
// from a failed request; both are surfaced, never retried automatically.
type Dispatcher struct {
	store   store.Store
	audit   *audit.Recorder
	drivers []string
	log     logger.Logger
	now     func() time.Time
}

// NewDispatcher wires a sales dispatcher over the configured driver roster.
func NewDispatcher(s store.Store, recorder *audit.Recorder, drivers []string, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:   s,
		audit:   recorder,
		drivers: drivers,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Request is the privileged form submission creating a pickup request.
type Request struct {
	StockNumber     string
	SalespersonName string
	Notes           string
}

// Create inserts a REQUESTED pickup.
func (d *Dispatcher) Create(ctx context.Context, actor auth.Identity, req Request) (*model.SalesPickup, error) {
	if !actor.CanMutate() {
		return nil, ErrReadOnlyRole
	}
	if req.StockNumber == "" || req.SalespersonName == "" {
		return nil, errors.New("sales: stock number and salesperson are required")
	}

	pickup := &model.SalesPickup{
		ID:              uuid.NewString(),
		StoreID:         actor.TenantID,
		StockNumber:     req.StockNumber,
		SalespersonName: req.SalespersonName,
		Status:          model.SalesRequested,
		RequestedAt:     d.now(),
		Notes:           req.Notes,
	}

	if err := d.store.InsertSalesPickup(ctx, pickup); err != nil {
		return nil, err
	}

	d.audit.Record(ctx, actor, "sales_pickup", pickup.ID, "create_request", map[string]any{
		"stock_number":     req.StockNumber,
		"salesperson_name": req.SalespersonName,
	})
	return pickup, nil
}

// Dispatch applies one action to the pickup. (false, nil) is a declined
// transition — missing reason or note — and makes no backend call.
func (d *Dispatcher) Dispatch(ctx context.Context, actor auth.Identity, p *model.SalesPickup, identifier string, action Action) (bool, error) {
	if !actor.CanMutate() {
		return false, ErrReadOnlyRole
	}

	kind, ok := ParseAction(identifier)
	if !ok {
		d.log.Debug("ignoring unknown sales action", "identifier", identifier, "pickup", p.ID)
		return false, nil
	}
	action.Kind = kind

	if kind == ActionDriverOnTheWay {
		if action.Driver == "" {
			return false, nil
		}
		if !d.onRoster(action.Driver) {
			return false, ErrUnknownDriver
		}
	}

	patch := Apply(p, action, d.now())
	if len(patch) == 0 {
		return false, nil
	}

	rows, err := d.store.UpdateSalesPickup(ctx, actor.TenantID, p.ID, patch)
	if err != nil {
		return false, fmt.Errorf("sales action %s on %s: %w", identifier, p.ID, err)
	}
	if rows == 0 {
		// The store accepted the write but it matched no row owned by this
		// tenant. Operators must see this; silently losing it is worse than
		// a failed request.
		return false, fmt.Errorf("sales action %s on %s: %w", identifier, p.ID, store.ErrNoRows)
	}

	d.audit.Record(ctx, actor, "sales_pickup", p.ID, auditName(kind), map[string]any{
		"columns": auditColumns(patch),
	})
	return true, nil
}

func (d *Dispatcher) onRoster(name string) bool {
	for _, v := range d.drivers {
		if v == name {
			return true
		}
	}
	return false
}

func auditName(kind ActionKind) string {
	switch kind {
	case ActionDriverOnTheWay:
		return "driver_on_the_way"
	case ActionDriverComplete:
		return "driver_complete"
	case ActionCancel:
		return "cancel_request"
	case ActionAddNote:
		return "note_added"
	default:
		return "unknown"
	}
}

func auditColumns(p store.Patch) []string {
	cols := make([]string, 0, len(p))
	for k := range p {
		cols = append(cols, k)
	}
	return cols
}
