package services

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/convergence"
	"github.com/Ramsey-B/fern/pkg/dto"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ActivityService serves the recent-activity feed: interactions and event
// logs merged into one stream, each entry resolved to a company label.
type ActivityService struct {
	fetcher  *convergence.Fetcher
	calendar Calendar
	logger   ectologger.Logger
	pageSize int
}

func NewActivityService(fetcher *convergence.Fetcher, calendar Calendar, logger ectologger.Logger, pageSize int) *ActivityService {
	return &ActivityService{
		fetcher:  fetcher,
		calendar: calendar,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Recent returns a page of the merged activity feed, newest first. The four
// source collections are fetched concurrently so latency is bounded by the
// slowest single fetch.
func (s *ActivityService) Recent(ctx context.Context, page int) (aggregate.Page[models.ActivityEntry], error) {
	ctx, span := tracing.StartSpan(ctx, "ActivityService.Recent")
	defer span.End()

	type fetched struct {
		collection models.Collection
		rows       []stores.RawRecord
		err        error
	}

	collections := []models.Collection{models.Interactions, models.EventLogs, models.Companies, models.Opportunities}
	results := make(chan fetched, len(collections))
	for _, collection := range collections {
		go func(collection models.Collection) {
			rows, err := s.fetcher.Fetch(ctx, collection, convergence.ReadPreferred)
			results <- fetched{collection: collection, rows: rows, err: err}
		}(collection)
	}

	byCollection := make(map[models.Collection][]stores.RawRecord, len(collections))
	for range collections {
		result := <-results
		if result.err != nil {
			return aggregate.Page[models.ActivityEntry]{}, result.err
		}
		byCollection[result.collection] = result.rows
	}

	companiesByID := aggregate.IndexBy(dto.Companies(byCollection[models.Companies]), func(c models.Company) string { return c.ID })
	opportunitiesByID := aggregate.IndexBy(dto.Opportunities(byCollection[models.Opportunities]), func(o models.Opportunity) string { return o.ID })

	entries := []models.ActivityEntry{}
	for _, interaction := range dto.Interactions(byCollection[models.Interactions]) {
		entries = append(entries, models.ActivityEntry{
			ID:           interaction.ID,
			Source:       "interaction",
			CompanyLabel: s.companyLabel(interaction.CompanyID, interaction.OpportunityID, companiesByID, opportunitiesByID),
			Detail:       interaction.Memo,
			OccurredAt:   interaction.OccurredAt,
			BusinessDay:  s.businessDay(interaction.OccurredAt),
		})
	}
	for _, log := range dto.EventLogs(byCollection[models.EventLogs]) {
		entries = append(entries, models.ActivityEntry{
			ID:           log.ID,
			Source:       "event_log",
			CompanyLabel: s.companyLabel(log.CompanyID, log.OpportunityID, companiesByID, opportunitiesByID),
			Detail:       log.Detail,
			Actor:        log.Actor,
			OccurredAt:   log.OccurredAt,
			BusinessDay:  s.businessDay(log.OccurredAt),
		})
	}

	aggregate.SortByTimeDesc(entries, func(e models.ActivityEntry) string { return e.OccurredAt })

	return aggregate.Paginate(entries, page, s.pageSize), nil
}

// companyLabel resolves the company behind an activity fact: directly by
// company id, or one hop through the opportunity. "Not specified" means the
// fact names no relation at all; "Unknown company" means it names one fern
// cannot resolve.
func (s *ActivityService) companyLabel(companyID, opportunityID string, companiesByID map[string]models.Company, opportunitiesByID map[string]models.Opportunity) string {
	if companyID != "" {
		if company, ok := companiesByID[companyID]; ok {
			return company.Name
		}
		return labelUnknownCompany
	}

	if opportunityID != "" {
		opportunity, ok := opportunitiesByID[opportunityID]
		if !ok {
			return labelUnknownCompany
		}
		if opportunity.CompanyName == "" {
			return labelNotSpecified
		}
		return opportunity.CompanyName
	}

	return labelNotSpecified
}

func (s *ActivityService) businessDay(occurredAt string) bool {
	t, ok := aggregate.ParseTime(occurredAt)
	if !ok {
		return false
	}
	return s.calendar.IsBusinessDay(t)
}
