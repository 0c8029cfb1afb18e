package models

const (
	LinkStatusActive   = "active"
	LinkStatusInactive = "inactive"
)

// Link associates a contact with an opportunity.
type Link struct {
	ID            string `json:"id"`
	ContactID     string `json:"contact_id"`
	OpportunityID string `json:"opportunity_id"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`

	Row int64 `json:"-"`
}
