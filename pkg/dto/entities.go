package dto

import (
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
)

func Company(r stores.RawRecord) models.Company {
	return models.Company{
		ID:        text(r, "id"),
		Name:      text(r, "name", "company_name", "companyName"),
		Region:    text(r, "region", "area"),
		Tags:      list(r, "tags", "labels"),
		Notes:     text(r, "notes", "memo"),
		CreatedAt: text(r, "created_at", "createdAt"),
		Row:       rowOf(r),
	}
}

func Companies(raws []stores.RawRecord) []models.Company {
	out := make([]models.Company, 0, len(raws))
	for _, r := range raws {
		out = append(out, Company(r))
	}
	return out
}

func Contact(r stores.RawRecord) models.Contact {
	return models.Contact{
		ID:          text(r, "id"),
		Name:        text(r, "name", "contact_name"),
		Email:       text(r, "email", "mail"),
		Phone:       text(r, "phone", "tel"),
		CompanyID:   text(r, "company_id", "companyId"),
		CompanyName: text(r, "company_name", "company"),
		Notes:       text(r, "notes", "memo"),
		CreatedAt:   text(r, "created_at", "createdAt"),
		Row:         rowOf(r),
	}
}

func Contacts(raws []stores.RawRecord) []models.Contact {
	out := make([]models.Contact, 0, len(raws))
	for _, r := range raws {
		out = append(out, Contact(r))
	}
	return out
}

func Lead(r stores.RawRecord) models.Lead {
	return models.Lead{
		ID:          text(r, "id"),
		Name:        text(r, "name", "contact_name"),
		Email:       text(r, "email", "mail"),
		Phone:       text(r, "phone", "tel"),
		CompanyName: text(r, "company_name", "company"),
		Source:      text(r, "source", "origin"),
		CapturedAt:  text(r, "captured_at", "created_at", "createdAt"),
		Row:         rowOf(r),
	}
}

func Leads(raws []stores.RawRecord) []models.Lead {
	out := make([]models.Lead, 0, len(raws))
	for _, r := range raws {
		out = append(out, Lead(r))
	}
	return out
}

func Opportunity(r stores.RawRecord) models.Opportunity {
	return models.Opportunity{
		ID:          text(r, "id"),
		Summary:     text(r, "summary", "title"),
		CompanyName: text(r, "company_name", "company", "companyName"),
		ParentID:    text(r, "parent_id", "parentId"),
		Stage:       text(r, "stage", "phase"),
		Status:      text(r, "status", "state"),
		Value:       number(r, "value", "amount"),
		Notes:       text(r, "notes", "memo"),
		CreatedAt:   text(r, "created_at", "createdAt"),
		Row:         rowOf(r),
	}
}

func Opportunities(raws []stores.RawRecord) []models.Opportunity {
	out := make([]models.Opportunity, 0, len(raws))
	for _, r := range raws {
		out = append(out, Opportunity(r))
	}
	return out
}

func Interaction(r stores.RawRecord) models.Interaction {
	return models.Interaction{
		ID:            text(r, "id"),
		CompanyID:     text(r, "company_id", "companyId"),
		OpportunityID: text(r, "opportunity_id", "opportunityId"),
		Kind:          text(r, "kind", "type"),
		Memo:          text(r, "memo", "note", "notes"),
		OccurredAt:    text(r, "occurred_at", "date", "createdAt"),
		Row:           rowOf(r),
	}
}

func Interactions(raws []stores.RawRecord) []models.Interaction {
	out := make([]models.Interaction, 0, len(raws))
	for _, r := range raws {
		out = append(out, Interaction(r))
	}
	return out
}

func EventLog(r stores.RawRecord) models.EventLog {
	return models.EventLog{
		ID:            text(r, "id"),
		CompanyID:     text(r, "company_id", "companyId"),
		OpportunityID: text(r, "opportunity_id", "opportunityId"),
		Actor:         text(r, "actor", "author", "user"),
		Action:        text(r, "action", "event"),
		Detail:        text(r, "detail", "description"),
		OccurredAt:    text(r, "occurred_at", "date", "createdAt"),
		Row:           rowOf(r),
	}
}

func EventLogs(raws []stores.RawRecord) []models.EventLog {
	out := make([]models.EventLog, 0, len(raws))
	for _, r := range raws {
		out = append(out, EventLog(r))
	}
	return out
}

func Link(r stores.RawRecord) models.Link {
	link := models.Link{
		ID:            text(r, "id"),
		ContactID:     text(r, "contact_id", "contactId"),
		OpportunityID: text(r, "opportunity_id", "opportunityId"),
		Status:        text(r, "status", "state"),
		CreatedAt:     text(r, "created_at", "createdAt"),
		Row:           rowOf(r),
	}
	if link.Status == "" {
		link.Status = models.LinkStatusActive
	}
	return link
}

func Links(raws []stores.RawRecord) []models.Link {
	out := make([]models.Link, 0, len(raws))
	for _, r := range raws {
		out = append(out, Link(r))
	}
	return out
}
