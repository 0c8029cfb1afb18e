package models

// Contact is an official contact: linked to a Company by id and mutable
// through its register row handle.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`

	Row int64 `json:"-"`
}

// Lead is a potential contact captured from raw intake. It has no stable
// company id, only a free-text company name; MatchedCompanyID is attached by
// the fuzzy identity join when a company normalizes to the same key.
type Lead struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	CompanyName      string `json:"company_name"`
	Source           string `json:"source"`
	CapturedAt       string `json:"captured_at"`
	MatchedCompanyID string `json:"matched_company_id"`

	Row int64 `json:"-"`
}
