package sales

import (
	"strings"
	"time"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/parse"
	"valet-board-backend/internal/store"
	"valet-board-backend/internal/timing"
)

// ActionKind enumerates the sales-pickup lifecycle actions.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionDriverOnTheWay
	ActionDriverComplete
	ActionCancel
	ActionAddNote
)

// Action is a parsed sales action with its required parameters.
type Action struct {
	Kind   ActionKind
	Driver string
	Reason model.CancelReason
	Note   string
	Author string
}

// ParseAction maps a wire identifier onto an action kind. The dispatcher
// treats an unknown identifier as a no-op, never as a failure.
func ParseAction(identifier string) (ActionKind, bool) {
	switch identifier {
	case "driver-on-the-way":
		return ActionDriverOnTheWay, true
	case "driver-complete":
		return ActionDriverComplete, true
	case "cancel":
		return ActionCancel, true
	case "add-note":
		return ActionAddNote, true
	default:
		return ActionUnknown, false
	}
}

// Apply produces the column patch for an action against the given pickup.
// A nil return means the action must not reach the backend: a missing driver
// or cancel reason declines the transition entirely.
func Apply(p *model.SalesPickup, a Action, now time.Time) store.Patch {
	switch a.Kind {
	case ActionDriverOnTheWay:
		if a.Driver == "" {
			return nil
		}
		return store.Patch{
			"status":        model.SalesOnTheWay,
			"on_the_way_at": now,
			"driver_name":   a.Driver,
		}

	case ActionDriverComplete:
		return store.Patch{
			"status":       model.SalesComplete,
			"completed_at": now,
		}

	case ActionCancel:
		if !model.ValidCancelReason(a.Reason) {
			return nil
		}
		return store.Patch{
			"status":        model.SalesCancelled,
			"cancelled_at":  now,
			"cancel_reason": a.Reason,
		}

	case ActionAddNote:
		text := strings.TrimSpace(a.Note)
		if text == "" {
			return nil
		}
		return store.Patch{
			"notes":            parse.AppendToBlob(p.Notes, now, a.Author, text),
			"notes_updated_at": now,
		}
	}
	return nil
}

// Duration is the pickup's master-style cycle: request to terminal timestamp,
// or now while still open. Snapped with the shared 15-second display rule by
// callers; classification is not part of the sales workflow.
func Duration(p *model.SalesPickup, now time.Time) time.Duration {
	requested := p.RequestedAt
	end := earliestTerminal(p)
	return timing.Elapsed(&requested, end, now)
}

// DriverDuration is the time since the driver left, closed by completion.
func DriverDuration(p *model.SalesPickup, now time.Time) (time.Duration, bool) {
	if p.OnTheWayAt == nil {
		return 0, false
	}
	return timing.Elapsed(p.OnTheWayAt, p.CompletedAt, now), true
}

func earliestTerminal(p *model.SalesPickup) *time.Time {
	if p.CompletedAt != nil {
		return p.CompletedAt
	}
	return p.CancelledAt
}
