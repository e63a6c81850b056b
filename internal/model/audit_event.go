package model

import "time"

// AuditEvent is a fire-and-forget record of a lifecycle action, kept for the
// compliance trail. Writing one must never block or fail an operator action.
type AuditEvent struct {
	ID          int64     `gorm:"autoIncrement;primaryKey"`
	StoreID     string    `gorm:"index;size:36;not null"`
	SubjectID   string    `gorm:"index;size:36;not null"` // ticket or pickup id
	SubjectKind string    `gorm:"size:16;not null"`       // "ticket" | "sales_pickup"
	ActorUserID string    `gorm:"size:36"`
	ActorRole   string    `gorm:"size:32"`
	Action      string    `gorm:"size:64;not null"`
	Payload     string    `gorm:"type:text"` // JSON, free-form
	CreatedAt   time.Time `gorm:"not null;index"`
}
