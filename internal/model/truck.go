package model

import "time"

// TruckProfile describes a truck used for load planning. Interior dimensions
// are stored in canonical inches, like case dimensions.
type TruckProfile struct {
	ID               string `gorm:"primaryKey;size:64"`
	Name             string `gorm:"uniqueIndex;size:80;not null"`
	InteriorLengthIn *float64
	InteriorWidthIn  *float64
	InteriorHeightIn *float64
	Notes            *string `gorm:"size:400"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
