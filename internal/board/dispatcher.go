package board

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

// ErrReadOnlyRole marks a mutation attempted by a role without write rights.
var ErrReadOnlyRole = errors.New("board: role has no mutation rights")

// ErrUnknownValet marks a with-<name> action naming someone off the roster.
var ErrUnknownValet = errors.New("board: valet not on roster")

// Dispatcher routes parsed actions into state-machine transitions and submits
// the resulting patches. The role gate runs before any patch is constructed.
type Dispatcher struct {
	store  store.Store
	audit  *audit.Recorder
	valets []string
	log    logger.Logger
	now    func() time.Time
}

// NewDispatcher wires a dispatcher. valets is the fixed keys-holder roster.
func NewDispatcher(s store.Store, recorder *audit.Recorder, valets []string, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:  s,
		audit:  recorder,
		valets: valets,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Dispatch parses and applies one action against the ticket. The bool result
// reports whether a patch was submitted; (false, nil) is a legitimate no-op
// (unknown identifier or empty patch) and makes no store call.
func (d *Dispatcher) Dispatch(ctx context.Context, actor auth.Identity, t *model.Ticket, identifier, note string) (bool, error) {
	if !actor.CanMutate() {
		return false, ErrReadOnlyRole
	}

	action, err := ParseAction(identifier, note)
	if err != nil {
		d.log.Debug("ignoring unknown action", "identifier", identifier, "ticket", t.ID)
		return false, nil
	}

	if action.Kind == ActionWithValet && !d.onRoster(action.Valet) {
		return false, ErrUnknownValet
	}

	patch := Apply(t, action, d.now())
	if len(patch) == 0 {
		return false, nil
	}

	rows, err := d.store.UpdateTicket(ctx, actor.TenantID, t.ID, patch)
	if err != nil {
		return false, fmt.Errorf("action %s on ticket %s: %w", action.Identifier(), t.ID, err)
	}
	if rows == 0 {
		return false, fmt.Errorf("action %s on ticket %s: %w", action.Identifier(), t.ID, store.ErrNoRows)
	}

	d.audit.Record(ctx, actor, "ticket", t.ID, action.Identifier(), map[string]any{
		"columns": patchColumns(patch),
	})
	return true, nil
}

// Create inserts a new ticket for the store's board. staged=true queues it
// ahead of the active phase; otherwise it starts live as NEW.
func (d *Dispatcher) Create(ctx context.Context, actor auth.Identity, tagNumber, customerName string, staged bool) (*model.Ticket, error) {
	if !actor.CanMutate() {
		return nil, ErrReadOnlyRole
	}
	if tagNumber == "" || customerName == "" {
		return nil, errors.New("board: tag number and customer name are required")
	}

	status := model.StatusNew
	if staged {
		status = model.StatusStaged
	}
	ticket := &model.Ticket{
		ID:           uuid.NewString(),
		StoreID:      actor.TenantID,
		TagNumber:    tagNumber,
		CustomerName: customerName,
		Status:       status,
		WashStatus:   model.WashNone,
		CreatedAt:    d.now(),
	}

	if err := d.store.InsertTicket(ctx, ticket); err != nil {
		return nil, err
	}

	d.audit.Record(ctx, actor, "ticket", ticket.ID, "create", map[string]any{
		"tag_number": tagNumber,
		"staged":     staged,
	})
	return ticket, nil
}

func (d *Dispatcher) onRoster(name string) bool {
	for _, v := range d.valets {
		if v == name {
			return true
		}
	}
	return false
}

func patchColumns(p store.Patch) []string {
	cols := make([]string, 0, len(p))
	for k := range p {
		cols = append(cols, k)
	}
	return cols
}
