package model

import "time"

// SalesStatus is the lifecycle phase of a sales-vehicle pickup request.
type SalesStatus string

const (
	SalesRequested SalesStatus = "REQUESTED"
	SalesOnTheWay  SalesStatus = "ON_THE_WAY"
	SalesComplete  SalesStatus = "COMPLETE"
	SalesCancelled SalesStatus = "CANCELLED"
)

// CancelReason is one of the fixed reasons a pickup request can be cancelled for.
type CancelReason string

const (
	CancelSwitchedStock CancelReason = "SWITCHED_STOCK"
	CancelWrongStock    CancelReason = "WRONG_STOCK"
	CancelAtMarriott    CancelReason = "AT_MARRIOTT"
	CancelAtArmstrong   CancelReason = "AT_ARMSTRONG"
	CancelOther         CancelReason = "OTHER"
)

// CancelReasons lists every valid cancel reason.
var CancelReasons = []CancelReason{
	CancelSwitchedStock,
	CancelWrongStock,
	CancelAtMarriott,
	CancelAtArmstrong,
	CancelOther,
}

// ValidCancelReason reports whether r belongs to the fixed reason set.
func ValidCancelReason(r CancelReason) bool {
	for _, known := range CancelReasons {
		if r == known {
			return true
		}
	}
	return false
}

// SalesPickup represents a sales-vehicle pickup request, a lighter workflow
// independent of service tickets.
type SalesPickup struct {
	ID              string       `gorm:"primaryKey;size:36" json:"id"`
	StoreID         string       `gorm:"index;size:36;not null" json:"storeId"`
	StockNumber     string       `gorm:"size:64;not null" json:"stockNumber"`
	SalespersonName string       `gorm:"size:128;not null" json:"salespersonName"`
	DriverName      *string      `gorm:"size:128" json:"driverName"`
	Status          SalesStatus  `gorm:"size:32;not null" json:"status"`
	CancelReason    CancelReason `gorm:"size:32" json:"cancelReason"`

	RequestedAt time.Time  `gorm:"not null;index" json:"requestedAt"`
	OnTheWayAt  *time.Time `json:"onTheWayAt"`
	CompletedAt *time.Time `json:"completedAt"`
	CancelledAt *time.Time `json:"cancelledAt"`

	Notes          string     `gorm:"type:text" json:"notes"`
	NotesUpdatedAt *time.Time `json:"notesUpdatedAt"`
}

// Terminal reports whether the pickup has reached a final state.
func (s SalesStatus) Terminal() bool {
	return s == SalesComplete || s == SalesCancelled
}
