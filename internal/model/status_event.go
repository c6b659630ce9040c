package model

import "time"

// StatusEvent is one immutable entry in a case's history log. Rows are only
// ever inserted; timeline views order by ScannedAt descending.
type StatusEvent struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	CaseID     string  `gorm:"size:32;not null;index"`
	ShowID     *string `gorm:"size:64;index"`
	Status     string  `gorm:"size:32;not null"`
	Location   *string `gorm:"size:80"`
	TruckLabel *string `gorm:"size:80"`
	ZoneLabel  *string `gorm:"size:80"`
	Note       *string `gorm:"size:500"`
	ScannedAt  time.Time `gorm:"not null;index"`

	// Associations
	Show *Show `gorm:"foreignKey:ShowID"`
}
