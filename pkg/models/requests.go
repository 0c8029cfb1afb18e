package models

// CreateCompanyRequest creates a company in the register.
type CreateCompanyRequest struct {
	Name   string   `json:"name" validate:"required"`
	Region string   `json:"region" validate:"omitempty"`
	Tags   []string `json:"tags" validate:"omitempty"`
	Notes  string   `json:"notes" validate:"omitempty"`
}

// UpdateCompanyRequest is a partial update; nil fields are left untouched.
// Notes are append-only under the merge policy.
type UpdateCompanyRequest struct {
	Name   *string   `json:"name" validate:"omitempty,min=1"`
	Region *string   `json:"region" validate:"omitempty"`
	Tags   *[]string `json:"tags" validate:"omitempty"`
	Notes  *string   `json:"notes" validate:"omitempty"`
}

type CreateContactRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty"`
	CompanyID string `json:"company_id" validate:"required"`
	Notes     string `json:"notes" validate:"omitempty"`
}

type UpdateContactRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty"`
	CompanyID *string `json:"company_id" validate:"omitempty,min=1"`
	Notes     *string `json:"notes" validate:"omitempty"`
}

type CreateOpportunityRequest struct {
	Summary     string  `json:"summary" validate:"required"`
	CompanyName string  `json:"company_name" validate:"required"`
	Stage       string  `json:"stage" validate:"omitempty"`
	Status      string  `json:"status" validate:"omitempty"`
	Value       float64 `json:"value" validate:"omitempty,gte=0"`
	ParentID    string  `json:"parent_id" validate:"omitempty"`
	Notes       string  `json:"notes" validate:"omitempty"`
}

type UpdateOpportunityRequest struct {
	Summary     *string  `json:"summary" validate:"omitempty,min=1"`
	CompanyName *string  `json:"company_name" validate:"omitempty,min=1"`
	Stage       *string  `json:"stage" validate:"omitempty"`
	Status      *string  `json:"status" validate:"omitempty"`
	Value       *float64 `json:"value" validate:"omitempty,gte=0"`
	ParentID    *string  `json:"parent_id" validate:"omitempty"`
	Notes       *string  `json:"notes" validate:"omitempty"`
}

type LinkContactRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
}

type PromoteLeadRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}
