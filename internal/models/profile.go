// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender is a user's stated gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// GenderPreference is the gender a user wants to see in discovery.
type GenderPreference string

const (
	PreferenceMale   GenderPreference = "male"
	PreferenceFemale GenderPreference = "female"
	PreferenceBoth   GenderPreference = "both"
)

// Includes reports whether the preference admits the given gender.
func (p GenderPreference) Includes(g Gender) bool {
	return p == PreferenceBoth || string(p) == string(g)
}

// Profile represents a user as seen by the match engine. Profiles are
// owned by the external profile store; this core reads them only.
type Profile struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	DisplayName string           `gorm:"not null" json:"display_name"`
	Avatar      string           `json:"avatar"`
	Gender      Gender           `gorm:"type:varchar(10);not null" json:"gender"`
	Preference  GenderPreference `gorm:"type:varchar(10);not null;default:'both'" json:"preference"`
	Lat         float64          `json:"lat"`
	Lng         float64          `json:"lng"`
	RadiusKm    float64          `gorm:"default:50" json:"radius_km"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
