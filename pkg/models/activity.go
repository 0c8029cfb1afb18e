package models

// Interaction is a timestamped fact attached to a company and/or opportunity.
// Read-side only: never joined for writes.
type Interaction struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	OpportunityID string `json:"opportunity_id"`
	Kind          string `json:"kind"`
	Memo          string `json:"memo"`
	OccurredAt    string `json:"occurred_at"`

	Row int64 `json:"-"`
}

// EventLog is an audit-trail fact appended after successful mutations.
type EventLog struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	OpportunityID string `json:"opportunity_id"`
	Actor         string `json:"actor"`
	Action        string `json:"action"`
	Detail        string `json:"detail"`
	OccurredAt    string `json:"occurred_at"`

	Row int64 `json:"-"`
}

// ActivityEntry is one row of the recent-activity feed, merged from
// interactions and event logs.
type ActivityEntry struct {
	ID           string `json:"id"`
	Source       string `json:"source"` // "interaction" or "event_log"
	CompanyLabel string `json:"company_label"`
	Detail       string `json:"detail"`
	Actor        string `json:"actor"`
	OccurredAt   string `json:"occurred_at"`
	BusinessDay  bool   `json:"business_day"`
}
