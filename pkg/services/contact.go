package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/convergence"
	"github.com/Ramsey-B/fern/pkg/dto"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/resolver"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ContactService serves official contacts and potential leads.
type ContactService struct {
	fetcher  *convergence.Fetcher
	resolver *resolver.Resolver
	writer   stores.Writer
	auditor  Recorder
	logger   ectologger.Logger
	pageSize int
}

func NewContactService(fetcher *convergence.Fetcher, res *resolver.Resolver, writer stores.Writer, auditor Recorder, logger ectologger.Logger, pageSize int) *ContactService {
	return &ContactService{
		fetcher:  fetcher,
		resolver: res,
		writer:   writer,
		auditor:  auditor,
		logger:   logger,
		pageSize: pageSize,
	}
}

// ListOfficial returns a page of official contacts with the owning company
// name joined by id.
func (s *ContactService) ListOfficial(ctx context.Context, query string, page int) (aggregate.Page[models.Contact], error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.ListOfficial")
	defer span.End()

	contactRaws, err := s.fetcher.Fetch(ctx, models.Contacts, convergence.ReadPreferred)
	if err != nil {
		return aggregate.Page[models.Contact]{}, err
	}
	companyRaws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return aggregate.Page[models.Contact]{}, err
	}

	companiesByID := aggregate.IndexBy(dto.Companies(companyRaws), func(c models.Company) string { return c.ID })

	contacts := dto.Contacts(contactRaws)
	for i := range contacts {
		if company, ok := companiesByID[contacts[i].CompanyID]; ok {
			contacts[i].CompanyName = company.Name
		}
	}

	contacts = aggregate.Search(contacts, query, func(c models.Contact) []string {
		return []string{c.Name, c.Email, c.Phone, c.CompanyName}
	})
	aggregate.SortByTimeDesc(contacts, func(c models.Contact) string { return c.CreatedAt })

	return aggregate.Paginate(contacts, page, s.pageSize), nil
}

// ListLeads returns a page of potential contacts. Each lead's free-text
// company name is matched against known companies by fuzzy key; a match
// attaches the company's id without promoting the lead.
func (s *ContactService) ListLeads(ctx context.Context, query string, page int) (aggregate.Page[models.Lead], error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.ListLeads")
	defer span.End()

	leadRaws, err := s.fetcher.Fetch(ctx, models.Leads, convergence.ReadPreferred)
	if err != nil {
		return aggregate.Page[models.Lead]{}, err
	}
	companyRaws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return aggregate.Page[models.Lead]{}, err
	}

	companiesByKey := aggregate.IndexBy(dto.Companies(companyRaws), func(c models.Company) string {
		return normalizers.CompanyKey(c.Name)
	})

	leads := dto.Leads(leadRaws)
	for i := range leads {
		if leads[i].CompanyName == "" {
			continue
		}
		if company, ok := companiesByKey[normalizers.CompanyKey(leads[i].CompanyName)]; ok {
			leads[i].MatchedCompanyID = company.ID
		}
	}

	leads = aggregate.Search(leads, query, func(l models.Lead) []string {
		return []string{l.Name, l.Email, l.CompanyName, l.Source}
	})
	aggregate.SortByTimeDesc(leads, func(l models.Lead) string { return l.CapturedAt })

	return aggregate.Paginate(leads, page, s.pageSize), nil
}

// PromoteLead turns a potential contact into an official one: a new contact
// record linked to the given company, with the lead removed afterward. The two
// writes are not atomic: if removing the lead fails, the new contact already
// exists alongside it and operators must reconcile by hand.
func (s *ContactService) PromoteLead(ctx context.Context, leadID, companyID string) (models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.PromoteLead")
	defer span.End()

	leadRec, leadRow, err := s.resolver.Locate(ctx, models.Leads, leadID)
	if err != nil {
		return models.Contact{}, err
	}
	if _, _, err := s.resolver.Locate(ctx, models.Companies, companyID); err != nil {
		return models.Contact{}, err
	}

	lead := dto.Lead(leadRec)
	author := authorFrom(ctx)

	data := map[string]any{
		"name":       lead.Name,
		"email":      lead.Email,
		"phone":      lead.Phone,
		"company_id": companyID,
		"notes":      fmt.Sprintf("Promoted from lead '%s' (source: %s)", lead.ID, lead.Source),
	}

	rec, err := s.writer.Create(ctx, models.Contacts, data, author)
	if err != nil {
		return models.Contact{}, fmt.Errorf("failed to promote lead %s: %w", leadID, err)
	}

	if err := s.writer.DeleteAt(ctx, models.Leads, leadRow); err != nil {
		// the contact is already durable; readers must see it even though
		// the promotion failed overall
		s.fetcher.Invalidate(models.Contacts)
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"lead_id":    leadID,
			"contact_id": dto.Contact(rec).ID,
			"company_id": companyID,
		}).Error("lead removal failed after contact creation, contact needs manual reconciliation")
		return models.Contact{}, fmt.Errorf("failed to remove promoted lead %s: %w", leadID, err)
	}

	s.fetcher.Invalidate(models.Contacts)
	s.fetcher.Invalidate(models.Leads)

	contact := dto.Contact(rec)
	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Contacts.String(),
		EntityID:   contact.ID,
		Action:     "promoted",
		Actor:      author,
		Detail:     fmt.Sprintf("lead %s promoted to contact", leadID),
	})

	return contact, nil
}

// Create writes a new official contact.
func (s *ContactService) Create(ctx context.Context, req models.CreateContactRequest) (models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.Create")
	defer span.End()

	if _, _, err := s.resolver.Locate(ctx, models.Companies, req.CompanyID); err != nil {
		return models.Contact{}, err
	}

	author := authorFrom(ctx)
	data := map[string]any{
		"name":       req.Name,
		"email":      req.Email,
		"phone":      req.Phone,
		"company_id": req.CompanyID,
		"notes":      req.Notes,
	}

	rec, err := s.writer.Create(ctx, models.Contacts, data, author)
	if err != nil {
		return models.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	s.fetcher.Invalidate(models.Contacts)

	contact := dto.Contact(rec)
	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Contacts.String(),
		EntityID:   contact.ID,
		Action:     "created",
		Actor:      author,
		Detail:     contact.Name,
	})

	return contact, nil
}

// Update applies a partial update to an official contact.
func (s *ContactService) Update(ctx context.Context, id string, req models.UpdateContactRequest) (models.Contact, error) {
	ctx, span := tracing.StartSpan(ctx, "ContactService.Update")
	defer span.End()

	existing, row, err := s.resolver.Locate(ctx, models.Contacts, id)
	if err != nil {
		return models.Contact{}, err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.CompanyID != nil {
		if _, _, err := s.resolver.Locate(ctx, models.Companies, *req.CompanyID); err != nil {
			return models.Contact{}, err
		}
		patch["company_id"] = *req.CompanyID
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}

	author := authorFrom(ctx)
	merged := resolver.MergePatch(existing, patch, appendOnlyFields, author, time.Now().UTC())

	if err := s.writer.UpdateAt(ctx, models.Contacts, row, merged, author); err != nil {
		return models.Contact{}, err
	}

	s.fetcher.Invalidate(models.Contacts)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Contacts.String(),
		EntityID:   id,
		Action:     "updated",
		Actor:      author,
	})

	rec := stores.RawRecord(merged)
	rec.SetRow(row)
	return dto.Contact(rec), nil
}

// Delete removes an official contact at its located row handle.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "ContactService.Delete")
	defer span.End()

	_, row, err := s.resolver.Locate(ctx, models.Contacts, id)
	if err != nil {
		return err
	}

	if err := s.writer.DeleteAt(ctx, models.Contacts, row); err != nil {
		return err
	}

	s.fetcher.Invalidate(models.Contacts)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Contacts.String(),
		EntityID:   id,
		Action:     "deleted",
		Actor:      authorFrom(ctx),
	})

	return nil
}
