package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/convergence"
	"github.com/Ramsey-B/fern/pkg/dto"
	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/resolver"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// OpportunityService serves opportunity views, the stage board, the parent
// tree, and contact links.
type OpportunityService struct {
	fetcher  *convergence.Fetcher
	resolver *resolver.Resolver
	writer   stores.Writer
	auditor  Recorder
	logger   ectologger.Logger
	pageSize int
	stages   []string
}

func NewOpportunityService(fetcher *convergence.Fetcher, res *resolver.Resolver, writer stores.Writer, auditor Recorder, logger ectologger.Logger, pageSize int, stages []string) *OpportunityService {
	return &OpportunityService{
		fetcher:  fetcher,
		resolver: res,
		writer:   writer,
		auditor:  auditor,
		logger:   logger,
		pageSize: pageSize,
		stages:   stages,
	}
}

// List returns a page of opportunities with the owning company joined by
// fuzzy name. An opportunity naming no company is labeled "Not specified";
// one naming a company fern doesn't know is labeled "Unknown company".
func (s *OpportunityService) List(ctx context.Context, query string, page int) (aggregate.Page[models.Opportunity], error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.List")
	defer span.End()

	opportunities, err := s.joined(ctx)
	if err != nil {
		return aggregate.Page[models.Opportunity]{}, err
	}

	opportunities = aggregate.Search(opportunities, query, func(o models.Opportunity) []string {
		return []string{o.Summary, o.CompanyName, o.Stage, o.Status}
	})
	aggregate.SortByTimeDesc(opportunities, func(o models.Opportunity) string { return o.CreatedAt })

	return aggregate.Paginate(opportunities, page, s.pageSize), nil
}

// StageBoard buckets opportunities by the configured stage list. Configured
// stages with no opportunities are still present with count 0.
func (s *OpportunityService) StageBoard(ctx context.Context) (map[string]aggregate.Group[models.Opportunity], error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.StageBoard")
	defer span.End()

	opportunities, err := s.joined(ctx)
	if err != nil {
		return nil, err
	}

	return aggregate.GroupByConfigured(s.stages, opportunities, func(o models.Opportunity) string { return o.Stage }), nil
}

// Children returns the direct children of a parent opportunity, newest first.
func (s *OpportunityService) Children(ctx context.Context, parentID string) ([]models.Opportunity, error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.Children")
	defer span.End()

	opportunities, err := s.joined(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	children := []models.Opportunity{}
	for _, o := range opportunities {
		if o.ID == parentID {
			found = true
		}
		if o.ParentID == parentID {
			children = append(children, o)
		}
	}
	if !found {
		return nil, faults.NewNotFound(models.Opportunities.String(), parentID)
	}

	aggregate.SortByTimeDesc(children, func(o models.Opportunity) string { return o.CreatedAt })
	return children, nil
}

// joined fetches opportunities and attaches company id and label by fuzzy
// name on fresh DTO values.
func (s *OpportunityService) joined(ctx context.Context) ([]models.Opportunity, error) {
	opportunityRaws, err := s.fetcher.Fetch(ctx, models.Opportunities, convergence.ReadPreferred)
	if err != nil {
		return nil, err
	}
	companyRaws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return nil, err
	}

	companiesByKey := aggregate.IndexBy(dto.Companies(companyRaws), func(c models.Company) string {
		return normalizers.CompanyKey(c.Name)
	})

	opportunities := dto.Opportunities(opportunityRaws)
	for i := range opportunities {
		if opportunities[i].CompanyName == "" {
			opportunities[i].CompanyLabel = labelNotSpecified
			continue
		}
		company, ok := companiesByKey[normalizers.CompanyKey(opportunities[i].CompanyName)]
		if !ok {
			opportunities[i].CompanyLabel = labelUnknownCompany
			continue
		}
		opportunities[i].CompanyID = company.ID
		opportunities[i].CompanyLabel = company.Name
	}

	return opportunities, nil
}

// Create writes a new opportunity. A named parent must exist.
func (s *OpportunityService) Create(ctx context.Context, req models.CreateOpportunityRequest) (models.Opportunity, error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.Create")
	defer span.End()

	if req.ParentID != "" {
		if _, _, err := s.resolver.Locate(ctx, models.Opportunities, req.ParentID); err != nil {
			if faults.IsNotFound(err) {
				return models.Opportunity{}, faults.NewValidation(models.Opportunities.String(), "", fmt.Sprintf("parent opportunity '%s' does not exist", req.ParentID))
			}
			return models.Opportunity{}, err
		}
	}

	author := authorFrom(ctx)
	data := map[string]any{
		"summary":      req.Summary,
		"company_name": req.CompanyName,
		"stage":        req.Stage,
		"status":       req.Status,
		"value":        req.Value,
		"parent_id":    req.ParentID,
		"notes":        req.Notes,
	}

	rec, err := s.writer.Create(ctx, models.Opportunities, data, author)
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("failed to create opportunity: %w", err)
	}

	s.fetcher.Invalidate(models.Opportunities)

	opportunity := dto.Opportunity(rec)
	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Opportunities.String(),
		EntityID:   opportunity.ID,
		Action:     "created",
		Actor:      author,
		Detail:     opportunity.Summary,
	})

	return opportunity, nil
}

// Update applies a partial update. A new parent link is validated for
// acyclicity before it is written: resolving the parent chain must never
// revisit the opportunity being updated.
func (s *OpportunityService) Update(ctx context.Context, id string, req models.UpdateOpportunityRequest) (models.Opportunity, error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.Update")
	defer span.End()

	existing, row, err := s.resolver.Locate(ctx, models.Opportunities, id)
	if err != nil {
		return models.Opportunity{}, err
	}

	patch := map[string]any{}
	if req.Summary != nil {
		patch["summary"] = *req.Summary
	}
	if req.CompanyName != nil {
		patch["company_name"] = *req.CompanyName
	}
	if req.Stage != nil {
		patch["stage"] = *req.Stage
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if req.Value != nil {
		patch["value"] = *req.Value
	}
	if req.ParentID != nil {
		if *req.ParentID != "" {
			if err := s.validateParentChain(ctx, id, *req.ParentID); err != nil {
				return models.Opportunity{}, err
			}
		}
		patch["parent_id"] = *req.ParentID
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}

	author := authorFrom(ctx)
	merged := resolver.MergePatch(existing, patch, appendOnlyFields, author, time.Now().UTC())

	if err := s.writer.UpdateAt(ctx, models.Opportunities, row, merged, author); err != nil {
		return models.Opportunity{}, err
	}

	s.fetcher.Invalidate(models.Opportunities)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Opportunities.String(),
		EntityID:   id,
		Action:     "updated",
		Actor:      author,
	})

	rec := stores.RawRecord(merged)
	rec.SetRow(row)
	return dto.Opportunity(rec), nil
}

// validateParentChain rejects a parent link whose ancestor chain revisits the
// opportunity itself. A dangling parent id ends the walk without error.
func (s *OpportunityService) validateParentChain(ctx context.Context, id, parentID string) error {
	raws, err := s.fetcher.Fetch(ctx, models.Opportunities, convergence.WriteRequired)
	if err != nil {
		return err
	}

	byID := aggregate.IndexBy(dto.Opportunities(raws), func(o models.Opportunity) string { return o.ID })

	if _, ok := byID[parentID]; !ok {
		return faults.NewValidation(models.Opportunities.String(), id, fmt.Sprintf("parent opportunity '%s' does not exist", parentID))
	}

	visited := map[string]bool{}
	for current := parentID; current != ""; {
		if current == id {
			return faults.NewValidation(models.Opportunities.String(), id, "opportunity cannot be its own ancestor")
		}
		if visited[current] {
			// pre-existing cycle above the new parent; the new link itself is fine
			return nil
		}
		visited[current] = true

		parent, ok := byID[current]
		if !ok {
			return nil
		}
		current = parent.ParentID
	}

	return nil
}

// Delete removes an opportunity at its located row handle.
func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.Delete")
	defer span.End()

	_, row, err := s.resolver.Locate(ctx, models.Opportunities, id)
	if err != nil {
		return err
	}

	if err := s.writer.DeleteAt(ctx, models.Opportunities, row); err != nil {
		return err
	}

	s.fetcher.Invalidate(models.Opportunities)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Opportunities.String(),
		EntityID:   id,
		Action:     "deleted",
		Actor:      authorFrom(ctx),
	})

	return nil
}

// LinkContact associates a contact with an opportunity. An existing active
// link is returned as-is; an inactive one is reactivated in place.
func (s *OpportunityService) LinkContact(ctx context.Context, opportunityID, contactID string) (models.Link, error) {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.LinkContact")
	defer span.End()

	if _, _, err := s.resolver.Locate(ctx, models.Opportunities, opportunityID); err != nil {
		return models.Link{}, err
	}
	if _, _, err := s.resolver.Locate(ctx, models.Contacts, contactID); err != nil {
		return models.Link{}, err
	}

	author := authorFrom(ctx)

	existing, row, found, err := s.findLink(ctx, opportunityID, contactID)
	if err != nil {
		return models.Link{}, err
	}

	if found {
		if existing.Status == models.LinkStatusActive {
			return existing, nil
		}

		data := map[string]any{
			"id":             existing.ID,
			"contact_id":     existing.ContactID,
			"opportunity_id": existing.OpportunityID,
			"status":         models.LinkStatusActive,
			"created_at":     existing.CreatedAt,
		}
		if err := s.writer.UpdateAt(ctx, models.Links, row, data, author); err != nil {
			return models.Link{}, err
		}

		s.fetcher.Invalidate(models.Links)
		existing.Status = models.LinkStatusActive
		s.recordLinkAudit(ctx, existing, "linked", author)
		return existing, nil
	}

	data := map[string]any{
		"contact_id":     contactID,
		"opportunity_id": opportunityID,
		"status":         models.LinkStatusActive,
	}
	rec, err := s.writer.Create(ctx, models.Links, data, author)
	if err != nil {
		return models.Link{}, fmt.Errorf("failed to link contact %s to opportunity %s: %w", contactID, opportunityID, err)
	}

	s.fetcher.Invalidate(models.Links)

	link := dto.Link(rec)
	s.recordLinkAudit(ctx, link, "linked", author)
	return link, nil
}

// UnlinkContact deactivates the link between a contact and an opportunity.
func (s *OpportunityService) UnlinkContact(ctx context.Context, opportunityID, contactID string) error {
	ctx, span := tracing.StartSpan(ctx, "OpportunityService.UnlinkContact")
	defer span.End()

	link, row, found, err := s.findLink(ctx, opportunityID, contactID)
	if err != nil {
		return err
	}
	if !found || link.Status != models.LinkStatusActive {
		return faults.NewNotFound(models.Links.String(), fmt.Sprintf("%s/%s", opportunityID, contactID))
	}

	author := authorFrom(ctx)
	data := map[string]any{
		"id":             link.ID,
		"contact_id":     link.ContactID,
		"opportunity_id": link.OpportunityID,
		"status":         models.LinkStatusInactive,
		"created_at":     link.CreatedAt,
	}
	if err := s.writer.UpdateAt(ctx, models.Links, row, data, author); err != nil {
		return err
	}

	s.fetcher.Invalidate(models.Links)
	link.Status = models.LinkStatusInactive
	s.recordLinkAudit(ctx, link, "unlinked", author)
	return nil
}

// findLink scans the register for the link between an opportunity and a
// contact, returning its row handle when present.
func (s *OpportunityService) findLink(ctx context.Context, opportunityID, contactID string) (models.Link, int64, bool, error) {
	raws, err := s.fetcher.Fetch(ctx, models.Links, convergence.WriteRequired)
	if err != nil {
		return models.Link{}, 0, false, err
	}

	for _, raw := range raws {
		link := dto.Link(raw)
		if link.OpportunityID != opportunityID || link.ContactID != contactID {
			continue
		}
		row, ok := raw.Row()
		if !ok {
			return models.Link{}, 0, false, faults.NewIntegrity(models.Links.String(), link.ID, "matched record has no row handle")
		}
		return link, row, true, nil
	}

	return models.Link{}, 0, false, nil
}

func (s *OpportunityService) recordLinkAudit(ctx context.Context, link models.Link, action, author string) {
	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Links.String(),
		EntityID:   link.ID,
		Action:     action,
		Actor:      author,
		Detail:     fmt.Sprintf("contact %s %s opportunity %s", link.ContactID, action, link.OpportunityID),
	})
}
