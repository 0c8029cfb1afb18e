package models

import "encoding/json"

// Company is the canonical company shape. Name and Region are dual-keyed on
// serialization: older consumers still read "company_name" and "area", so
// MarshalJSON mirrors the canonical values under both keys. No other
// component writes either key.
type Company struct {
	ID        string
	Name      string
	Region    string
	Tags      []string
	Notes     string
	CreatedAt string

	// Row is the register row handle. Zero for records read from the
	// directory; never serialized to consumers.
	Row int64 `json:"-"`
}

func (c Company) MarshalJSON() ([]byte, error) {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		LegacyName string   `json:"company_name"`
		Region     string   `json:"region"`
		LegacyArea string   `json:"area"`
		Tags       []string `json:"tags"`
		Notes      string   `json:"notes"`
		CreatedAt  string   `json:"created_at"`
	}{
		ID:         c.ID,
		Name:       c.Name,
		LegacyName: c.Name,
		Region:     c.Region,
		LegacyArea: c.Region,
		Tags:       tags,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	})
}

// CompanyDetail is the cross-entity company view: official contacts joined by
// company id, opportunities joined by fuzzy name, and the last-activity
// timestamp computed across interactions and event logs.
type CompanyDetail struct {
	Company       Company       `json:"company"`
	Contacts      []Contact     `json:"contacts"`
	Opportunities []Opportunity `json:"opportunities"`
	LastActivity  string        `json:"last_activity"`
}
