package model

import "time"

// PushSubscription holds a browser push subscription used to deliver the
// audible alert cue to wallboard screens. Subscriptions are scoped per store;
// every subscriber of a store receives every cue for that store.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	StoreID   string    `gorm:"index;size:36;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
