package model

import "time"

// TicketStatus is the lifecycle phase of a service ticket.
type TicketStatus string

const (
	StatusStaged             TicketStatus = "STAGED"
	StatusNew                TicketStatus = "NEW"
	StatusKeysInMachine      TicketStatus = "KEYS_IN_MACHINE"
	StatusKeysWithValet      TicketStatus = "KEYS_WITH_VALET"
	StatusWaitingForCustomer TicketStatus = "WAITING_FOR_CUSTOMER"
	StatusComplete           TicketStatus = "COMPLETE"
)

// WashStatus is the wash sub-status, orthogonal to TicketStatus.
type WashStatus string

const (
	WashNone        WashStatus = "NONE"
	WashInWashArea  WashStatus = "IN_WASH_AREA"
	WashOnRedLine   WashStatus = "ON_RED_LINE"
	WashDusty       WashStatus = "DUSTY"
	WashNeedsRewash WashStatus = "NEEDS_REWASH"
	WashRewash      WashStatus = "REWASH"
)

// KeysHolderMachine is the keys_holder value while keys sit in the key machine.
const KeysHolderMachine = "KEY_MACHINE"

// Ticket represents a vehicle moving through the valet/service workflow.
type Ticket struct {
	ID           string       `gorm:"primaryKey;size:36" json:"id"`
	StoreID      string       `gorm:"index;size:36;not null" json:"storeId"`
	TagNumber    string       `gorm:"size:64;not null" json:"tagNumber"`
	CustomerName string       `gorm:"size:128;not null" json:"customerName"`
	Status       TicketStatus `gorm:"size:32;not null" json:"status"`
	WashStatus   WashStatus   `gorm:"size:32;not null;default:NONE" json:"washStatus"`
	KeysHolder   *string      `gorm:"size:64" json:"keysHolder"`

	CreatedAt       time.Time  `gorm:"not null;index" json:"createdAt"`
	ActiveStartedAt *time.Time `json:"activeStartedAt"`
	KeysAtMachineAt *time.Time `json:"keysAtMachineAt"`
	KeysWithValetAt *time.Time `json:"keysWithValetAt"`
	WashStatusAt    *time.Time `json:"washStatusAt"`
	WaitingClientAt *time.Time `json:"waitingClientAt"`
	CompletedAt     *time.Time `json:"completedAt"`

	// Notes is the append-only note log in its persisted blob form.
	// Logic operates on parse.NoteLog, never on this string.
	Notes          string     `gorm:"type:text" json:"notes"`
	NotesUpdatedAt *time.Time `json:"notesUpdatedAt"`
}

// Human returns the display label for a ticket status.
func (s TicketStatus) Human() string {
	switch s {
	case StatusStaged:
		return "Staged"
	case StatusNew:
		return "New"
	case StatusKeysInMachine:
		return "Keys in Machine"
	case StatusKeysWithValet:
		return "Keys with Valet"
	case StatusWaitingForCustomer:
		return "Waiting for Customer"
	case StatusComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// Human returns the display label for a wash status.
func (w WashStatus) Human() string {
	switch w {
	case WashInWashArea:
		return "In Wash Area"
	case WashOnRedLine:
		return "On Red Line"
	case WashDusty:
		return "Dusty"
	case WashNeedsRewash:
		return "Needs Rewash"
	case WashRewash:
		return "Rewash"
	case WashNone:
		return "None"
	default:
		return string(w)
	}
}
