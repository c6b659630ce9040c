package model

import "time"

// Issue is a logged exception (missing/damaged/other) against a case within a
// show context. Created only as a side effect of a scan update and never
// updated afterward.
type Issue struct {
	ID        string  `gorm:"primaryKey;size:64"`
	ShowID    string  `gorm:"size:64;not null;index"`
	CaseID    string  `gorm:"size:32;not null;index"`
	Type      string  `gorm:"size:16;not null"`
	Notes     *string `gorm:"size:400"`
	PhotoURL  *string `gorm:"size:512"`
	CreatedAt time.Time
}
