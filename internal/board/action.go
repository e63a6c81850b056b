package board

import (
	"fmt"
	"strings"
)

// ActionKind enumerates every board action. The set is closed: the transition
// switch in Apply covers each kind, so adding one without a transition is a
// compile-visible hole instead of a silent default fallthrough.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionActivateFromStaged
	ActionKeysMachine
	ActionCarWashArea
	ActionCarRedLine
	ActionWashDusty
	ActionWashNeedsRewash
	ActionWashRewash
	ActionClearWash
	ActionWithValet
	ActionClearValet
	ActionWaitingCustomer
	ActionCustomerPickedUp
	ActionEditNote
)

// Action is a parsed operator action. Valet carries the target name for
// with-<name>; Note carries the text for edit-note.
type Action struct {
	Kind  ActionKind
	Valet string
	Note  string
}

// withPrefix is the wire prefix for assigning keys to a named valet.
const withPrefix = "with-"

// ParseAction maps a wire identifier to an Action. Unknown identifiers return
// an error; callers treat that as a no-op, never as a failure.
func ParseAction(identifier, note string) (Action, error) {
	switch identifier {
	case "activate-from-staged":
		return Action{Kind: ActionActivateFromStaged}, nil
	case "keys-machine":
		return Action{Kind: ActionKeysMachine}, nil
	case "car-wash-area":
		return Action{Kind: ActionCarWashArea}, nil
	case "car-red-line":
		return Action{Kind: ActionCarRedLine}, nil
	case "wash-dusty":
		return Action{Kind: ActionWashDusty}, nil
	case "wash-needs-rewash":
		return Action{Kind: ActionWashNeedsRewash}, nil
	case "wash-rewash":
		return Action{Kind: ActionWashRewash}, nil
	case "clear-wash":
		return Action{Kind: ActionClearWash}, nil
	case "clear-valet":
		return Action{Kind: ActionClearValet}, nil
	case "waiting-customer":
		return Action{Kind: ActionWaitingCustomer}, nil
	case "customer-picked-up":
		return Action{Kind: ActionCustomerPickedUp}, nil
	case "edit-note":
		return Action{Kind: ActionEditNote, Note: note}, nil
	}
	if name, ok := strings.CutPrefix(identifier, withPrefix); ok && name != "" {
		return Action{Kind: ActionWithValet, Valet: name}, nil
	}
	return Action{}, fmt.Errorf("unknown action %q", identifier)
}

// Identifier returns the wire identifier for an action, used in audit records.
func (a Action) Identifier() string {
	switch a.Kind {
	case ActionActivateFromStaged:
		return "activate-from-staged"
	case ActionKeysMachine:
		return "keys-machine"
	case ActionCarWashArea:
		return "car-wash-area"
	case ActionCarRedLine:
		return "car-red-line"
	case ActionWashDusty:
		return "wash-dusty"
	case ActionWashNeedsRewash:
		return "wash-needs-rewash"
	case ActionWashRewash:
		return "wash-rewash"
	case ActionClearWash:
		return "clear-wash"
	case ActionWithValet:
		return withPrefix + strings.ToLower(a.Valet)
	case ActionClearValet:
		return "clear-valet"
	case ActionWaitingCustomer:
		return "waiting-customer"
	case ActionCustomerPickedUp:
		return "customer-picked-up"
	case ActionEditNote:
		return "edit-note"
	default:
		return "unknown"
	}
}
