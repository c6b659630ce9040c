package model

import "time"

// OfflineEntry is one namespaced key of the client-side durable store backing
// the offline scan queue and its cached lookup data.
type OfflineEntry struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}
