package entities

import (
	"time"
)

// Facility represents a structured senior-care facility record. This subsystem
// reads these rows; it does not create them.
type Facility struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	FacilityType string    `json:"facility_type" db:"facility_type"`
	PriceMin     float64   `json:"price_min" db:"price_min"`
	PriceMax     float64   `json:"price_max" db:"price_max"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	Amenities    []string  `json:"amenities" db:"-"`
	Images       []Image   `json:"images" db:"-"`
	CareTypes    []string  `json:"care_types" db:"-"`
	Tours        []Tour    `json:"tours" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Image is a facility photo reference
type Image struct {
	ID         string `json:"id" db:"id"`
	FacilityID string `json:"facility_id" db:"facility_id"`
	URL        string `json:"url" db:"url"`
	Caption    string `json:"caption,omitempty" db:"caption"`
}

// Tour is a scheduled or requested facility visit
type Tour struct {
	ID          string    `json:"id" db:"id"`
	FacilityID  string    `json:"facility_id" db:"facility_id"`
	ScheduledAt time.Time `json:"scheduled_at" db:"scheduled_at"`
	Status      string    `json:"status" db:"status"`
}
