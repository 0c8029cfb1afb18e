package services

import (
	"context"
	"fmt"

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

// CompanyService serves company views and mutations.
type CompanyService struct {
	fetcher  *convergence.Fetcher
	resolver *resolver.Resolver
	writer   stores.Writer
	auditor  Recorder
	logger   ectologger.Logger
	pageSize int
	regions  []string
}

func NewCompanyService(fetcher *convergence.Fetcher, res *resolver.Resolver, writer stores.Writer, auditor Recorder, logger ectologger.Logger, pageSize int, regions []string) *CompanyService {
	return &CompanyService{
		fetcher:  fetcher,
		resolver: res,
		writer:   writer,
		auditor:  auditor,
		logger:   logger,
		pageSize: pageSize,
		regions:  regions,
	}
}

// List returns a page of companies matching the search query, newest first.
func (s *CompanyService) List(ctx context.Context, query string, page int) (aggregate.Page[models.Company], error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.List")
	defer span.End()

	raws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return aggregate.Page[models.Company]{}, err
	}

	companies := dto.Companies(raws)
	companies = aggregate.Search(companies, query, func(c models.Company) []string {
		fields := []string{c.Name, c.Region, c.Notes}
		return append(fields, c.Tags...)
	})
	aggregate.SortByTimeDesc(companies, func(c models.Company) string { return c.CreatedAt })

	return aggregate.Paginate(companies, page, s.pageSize), nil
}

// Get composes the cross-entity company view: official contacts joined by
// company id, opportunities joined by fuzzy name, and the last-activity
// timestamp computed from interactions and event logs fetched concurrently.
func (s *CompanyService) Get(ctx context.Context, id string) (models.CompanyDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.Get")
	defer span.End()

	raws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return models.CompanyDetail{}, err
	}

	var company models.Company
	found := false
	for _, raw := range raws {
		c := dto.Company(raw)
		if c.ID == id {
			company = c
			found = true
			break
		}
	}
	if !found {
		return models.CompanyDetail{}, faults.NewNotFound(models.Companies.String(), id)
	}

	contactRaws, err := s.fetcher.Fetch(ctx, models.Contacts, convergence.ReadPreferred)
	if err != nil {
		return models.CompanyDetail{}, err
	}
	opportunityRaws, err := s.fetcher.Fetch(ctx, models.Opportunities, convergence.ReadPreferred)
	if err != nil {
		return models.CompanyDetail{}, err
	}

	contactsByCompany := aggregate.IndexGroupBy(dto.Contacts(contactRaws), func(c models.Contact) string { return c.CompanyID })
	contacts := contactsByCompany[company.ID]
	if contacts == nil {
		contacts = []models.Contact{}
	}

	opportunitiesByKey := aggregate.IndexGroupBy(dto.Opportunities(opportunityRaws), func(o models.Opportunity) string {
		return normalizers.CompanyKey(o.CompanyName)
	})
	opportunities := []models.Opportunity{}
	for _, o := range opportunitiesByKey[normalizers.CompanyKey(company.Name)] {
		// dto produced a fresh value; attaching here never touches a cached record
		o.CompanyID = company.ID
		o.CompanyLabel = company.Name
		opportunities = append(opportunities, o)
	}

	lastActivity, err := s.lastActivity(ctx, company)
	if err != nil {
		return models.CompanyDetail{}, err
	}

	return models.CompanyDetail{
		Company:       company,
		Contacts:      contacts,
		Opportunities: opportunities,
		LastActivity:  lastActivity,
	}, nil
}

// lastActivity fans out the interaction and event-log fetches and joins them
// before computing the maximum activity timestamp for one company.
func (s *CompanyService) lastActivity(ctx context.Context, company models.Company) (string, error) {
	type fetched struct {
		collection models.Collection
		rows       []stores.RawRecord
		err        error
	}

	results := make(chan fetched, 2)
	for _, collection := range []models.Collection{models.Interactions, models.EventLogs} {
		go func(collection models.Collection) {
			rows, err := s.fetcher.Fetch(ctx, collection, convergence.ReadPreferred)
			results <- fetched{collection: collection, rows: rows, err: err}
		}(collection)
	}

	var times []string
	for i := 0; i < 2; i++ {
		result := <-results
		if result.err != nil {
			return "", result.err
		}
		switch result.collection {
		case models.Interactions:
			for _, interaction := range dto.Interactions(result.rows) {
				if interaction.CompanyID == company.ID {
					times = append(times, interaction.OccurredAt)
				}
			}
		case models.EventLogs:
			for _, entry := range dto.EventLogs(result.rows) {
				if entry.CompanyID == company.ID {
					times = append(times, entry.OccurredAt)
				}
			}
		}
	}

	return aggregate.LastActivity(company.CreatedAt, times...), nil
}

// GroupByRegion buckets companies by the configured region list. Configured
// regions with no companies are still present with count 0.
func (s *CompanyService) GroupByRegion(ctx context.Context) (map[string]aggregate.Group[models.Company], error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.GroupByRegion")
	defer span.End()

	raws, err := s.fetcher.Fetch(ctx, models.Companies, convergence.ReadPreferred)
	if err != nil {
		return nil, err
	}

	companies := dto.Companies(raws)
	return aggregate.GroupByConfigured(s.regions, companies, func(c models.Company) string { return c.Region }), nil
}

// Create writes a new company to the register.
func (s *CompanyService) Create(ctx context.Context, req models.CreateCompanyRequest) (models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.Create")
	defer span.End()

	author := authorFrom(ctx)
	data := map[string]any{
		"name":   req.Name,
		"region": req.Region,
		"tags":   req.Tags,
		"notes":  req.Notes,
	}

	rec, err := s.writer.Create(ctx, models.Companies, data, author)
	if err != nil {
		return models.Company{}, fmt.Errorf("failed to create company: %w", err)
	}

	s.fetcher.Invalidate(models.Companies)

	company := dto.Company(rec)
	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Companies.String(),
		EntityID:   company.ID,
		Action:     "created",
		Actor:      author,
		Detail:     company.Name,
	})

	return company, nil
}

// Update applies a partial update under the merge policy: caller fields
// overwrite, notes append with an author/date stamp.
func (s *CompanyService) Update(ctx context.Context, id string, req models.UpdateCompanyRequest) (models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.Update")
	defer span.End()

	existing, row, err := s.resolver.Locate(ctx, models.Companies, id)
	if err != nil {
		return models.Company{}, err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Region != nil {
		patch["region"] = *req.Region
	}
	if req.Tags != nil {
		patch["tags"] = *req.Tags
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}

	author := authorFrom(ctx)
	merged := resolver.MergePatch(existing, patch, appendOnlyFields, author, nowUTC())

	if err := s.writer.UpdateAt(ctx, models.Companies, row, merged, author); err != nil {
		return models.Company{}, err
	}

	s.fetcher.Invalidate(models.Companies)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Companies.String(),
		EntityID:   id,
		Action:     "updated",
		Actor:      author,
	})

	rec := stores.RawRecord(merged)
	rec.SetRow(row)
	return dto.Company(rec), nil
}

// Delete removes a company at its located row handle.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "CompanyService.Delete")
	defer span.End()

	_, row, err := s.resolver.Locate(ctx, models.Companies, id)
	if err != nil {
		return err
	}

	if err := s.writer.DeleteAt(ctx, models.Companies, row); err != nil {
		return err
	}

	s.fetcher.Invalidate(models.Companies)

	s.auditor.Record(ctx, models.AuditEntry{
		Collection: models.Companies.String(),
		EntityID:   id,
		Action:     "deleted",
		Actor:      authorFrom(ctx),
	})

	return nil
}
