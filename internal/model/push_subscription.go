package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Machines []SubscriptionMachine `gorm:"foreignKey:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionMachine links a push subscription to one machine the subscriber
// wants schedule-change notifications for. Machine ids are document-store
// ids, so there is no relational foreign key to a machines table.
type SubscriptionMachine struct {
	Endpoint  string `gorm:"primaryKey;size:512"`
	MachineID string `gorm:"primaryKey;size:64;index"`
}
