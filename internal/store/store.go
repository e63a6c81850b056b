package store

import (
	"context"
	"errors"

	"valet-board-backend/internal/model"
)

// Patch is a partial update: column name → new value. Actions produce patches
// touching only the fields they own, so concurrent patches to different
// columns merge at the store; same-column races are last-write-wins.
type Patch map[string]any

// Table identifies a backed table for change notifications.
type Table string

const (
	TableTickets      Table = "tickets"
	TableSalesPickups Table = "sales_pickups"
)

// ErrNoRows marks an update that matched no row owned by the acting tenant.
// This is a distinct outcome from a failed request: the write was accepted
// and applied to nothing, which operators must see as "update blocked".
var ErrNoRows = errors.New("store: update matched no rows")

// Store is the tabular backend collaborator: record insert, partial update
// scoped by primary key and tenant, ordered select, and change notification
// via Notifier.
type Store interface {
	InsertTicket(ctx context.Context, t *model.Ticket) error
	// UpdateTicket applies a column patch to one ticket; returns rows affected.
	UpdateTicket(ctx context.Context, storeID, id string, p Patch) (int64, error)
	// ListTickets returns the complete current ticket set, newest first.
	ListTickets(ctx context.Context, storeID string) ([]model.Ticket, error)

	InsertSalesPickup(ctx context.Context, p *model.SalesPickup) error
	UpdateSalesPickup(ctx context.Context, storeID, id string, p Patch) (int64, error)
	// ListSalesPickups returns the pickup set in request order (oldest first).
	ListSalesPickups(ctx context.Context, storeID string) ([]model.SalesPickup, error)

	InsertAuditEvent(ctx context.Context, e *model.AuditEvent) error

	SaveSubscription(ctx context.Context, s *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context, storeID string) ([]model.PushSubscription, error)

	Notifier() *Notifier
}
