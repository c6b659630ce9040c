package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// An operator subscribes to the cases they want movement alerts for.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Cases []*Case `gorm:"many2many:subscription_case_mapping;"`
}
