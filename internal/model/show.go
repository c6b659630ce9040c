package model

import "time"

// Show represents one production a set of cases travels with.
type Show struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:128;not null"`
	Dates     string `gorm:"size:64"`
	Venue     string `gorm:"size:128"`
	Notes     *string `gorm:"size:400"`
	CreatedAt time.Time
}
