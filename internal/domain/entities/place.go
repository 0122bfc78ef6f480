package entities

// Place is the normalized shape of one provider place record. Optional fields
// stay nil when the provider omits them; no sentinel defaults.
type Place struct {
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	PhoneNumber *string  `json:"phone_number,omitempty"`
	Website     *string  `json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	ProviderID  *string  `json:"provider_id,omitempty"`
	PlaceID     *string  `json:"place_id,omitempty"`
}
