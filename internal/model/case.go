package model

import "time"

// Case represents a physical equipment case. CurrentStatus and CurrentLocation
// form the mutable projection; they always reflect the most recently accepted
// scan or edit and are never derived from history.
type Case struct {
	ID              string `gorm:"primaryKey;size:32"`
	Department      string `gorm:"size:32;not null"`
	CaseType        string `gorm:"size:80;not null"`
	LengthIn        *float64
	WidthIn         *float64
	HeightIn        *float64
	DefaultContents string  `gorm:"size:500;not null"`
	CurrentStatus   string  `gorm:"size:32;not null"`
	CurrentLocation string  `gorm:"size:80;not null"`
	OwnerLabel      *string `gorm:"size:80"`
	Notes           *string `gorm:"size:400"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Associations
	StatusHistory []StatusEvent `gorm:"foreignKey:CaseID"`
}
