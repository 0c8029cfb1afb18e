package models

import "encoding/json"

// Opportunity is the canonical opportunity shape. The owning company is
// referenced by free-text name (no shared foreign id exists); CompanyID and
// CompanyLabel are attached by the fuzzy-name join on a copy, never on a
// cached record. Summary is dual-keyed: older consumers read it as "title".
type Opportunity struct {
	ID          string
	Summary     string
	CompanyName string
	ParentID    string
	Stage       string
	Status      string
	Value       float64
	Notes       string
	CreatedAt   string

	// Attached by the join engine.
	CompanyID    string
	CompanyLabel string

	Row int64 `json:"-"`
}

func (o Opportunity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           string  `json:"id"`
		Summary      string  `json:"summary"`
		LegacyTitle  string  `json:"title"`
		CompanyName  string  `json:"company_name"`
		CompanyID    string  `json:"company_id"`
		CompanyLabel string  `json:"company_label"`
		ParentID     string  `json:"parent_id"`
		Stage        string  `json:"stage"`
		Status       string  `json:"status"`
		Value        float64 `json:"value"`
		Notes        string  `json:"notes"`
		CreatedAt    string  `json:"created_at"`
	}{
		ID:           o.ID,
		Summary:      o.Summary,
		LegacyTitle:  o.Summary,
		CompanyName:  o.CompanyName,
		CompanyID:    o.CompanyID,
		CompanyLabel: o.CompanyLabel,
		ParentID:     o.ParentID,
		Stage:        o.Stage,
		Status:       o.Status,
		Value:        o.Value,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	})
}
