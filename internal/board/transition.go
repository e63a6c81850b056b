package board

import (
	"strings"
	"time"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/parse"
	"valet-board-backend/internal/store"
)

// Apply produces the column patch for an action against the given ticket.
// Transitions carry no precondition on current status: completing a ticket
// that was never activated still completes it. A nil return means no-op.
//
// Timestamps are stamped with now on every firing, so repeating an action is
// idempotent on status and enum columns but advances its "now" fields.
func Apply(t *model.Ticket, a Action, now time.Time) store.Patch {
	switch a.Kind {
	case ActionActivateFromStaged:
		return store.Patch{
			"status":            model.StatusNew,
			"active_started_at": now,
		}

	case ActionKeysMachine:
		return store.Patch{
			"status":             model.StatusKeysInMachine,
			"keys_holder":        model.KeysHolderMachine,
			"keys_at_machine_at": now,
		}

	case ActionCarWashArea:
		return washPatch(model.WashInWashArea, now)
	case ActionCarRedLine:
		return washPatch(model.WashOnRedLine, now)
	case ActionWashDusty:
		return washPatch(model.WashDusty, now)
	case ActionWashNeedsRewash:
		return washPatch(model.WashNeedsRewash, now)
	case ActionWashRewash:
		return washPatch(model.WashRewash, now)

	case ActionClearWash:
		return store.Patch{"wash_status": model.WashNone}

	case ActionWithValet:
		if a.Valet == "" {
			return nil
		}
		return store.Patch{
			"status":             model.StatusKeysWithValet,
			"keys_holder":        a.Valet,
			"keys_with_valet_at": now,
		}

	case ActionClearValet:
		return store.Patch{
			"status":             model.StatusNew,
			"keys_holder":        nil,
			"keys_with_valet_at": nil,
		}

	case ActionWaitingCustomer:
		return store.Patch{
			"status":            model.StatusWaitingForCustomer,
			"waiting_client_at": now,
		}

	case ActionCustomerPickedUp:
		return store.Patch{
			"status":       model.StatusComplete,
			"completed_at": now,
		}

	case ActionEditNote:
		text := strings.TrimSpace(a.Note)
		if text == "" {
			return nil
		}
		return store.Patch{
			"notes":            parse.AppendToBlob(t.Notes, now, "", text),
			"notes_updated_at": now,
		}
	}
	return nil
}

func washPatch(w model.WashStatus, now time.Time) store.Patch {
	return store.Patch{
		"wash_status":    w,
		"wash_status_at": now,
	}
}
