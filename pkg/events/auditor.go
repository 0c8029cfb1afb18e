// Package events appends fern's best-effort audit trail. Audit entries are
// secondary side effects of successful mutations: a failure here is logged
// and swallowed, never surfaced, and the primary operation's success is
// reported to the caller regardless.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Publisher is the Kafka surface the auditor needs.
type Publisher interface {
	PublishAuditEvent(ctx context.Context, event *kafka.AuditEvent) error
}

// Invalidator marks a collection stale after the auditor appends to it.
type Invalidator interface {
	Invalidate(collection models.Collection)
}

// Auditor appends an event-log row in the register and publishes the same
// entry to Kafka.
type Auditor struct {
	writer    stores.Writer
	publisher Publisher
	cache     Invalidator
	logger    ectologger.Logger
}

func NewAuditor(writer stores.Writer, publisher Publisher, cache Invalidator, logger ectologger.Logger) *Auditor {
	return &Auditor{
		writer:    writer,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// Record appends the audit entry. Always returns; never fails the caller.
func (a *Auditor) Record(ctx context.Context, entry models.AuditEntry) {
	ctx, span := tracing.StartSpan(ctx, "events.Auditor.Record")
	defer span.End()

	if entry.OccurredAt == "" {
		entry.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	data := map[string]any{
		"company_id":     "",
		"opportunity_id": "",
		"actor":          entry.Actor,
		"action":         fmt.Sprintf("%s.%s", entry.Collection, entry.Action),
		"detail":         entry.Detail,
		"occurred_at":    entry.OccurredAt,
	}
	switch models.Collection(entry.Collection) {
	case models.Companies:
		data["company_id"] = entry.EntityID
	case models.Opportunities:
		data["opportunity_id"] = entry.EntityID
	}

	if _, err := a.writer.Create(ctx, models.EventLogs, data, entry.Actor); err != nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"collection": entry.Collection,
			"entity_id":  entry.EntityID,
			"action":     entry.Action,
		}).Warn("failed to append audit entry")
	} else if a.cache != nil {
		// the activity feed reads event_logs through the cache; the new
		// row must be visible before the primary operation returns
		a.cache.Invalidate(models.EventLogs)
	}

	if a.publisher == nil {
		return
	}

	event := &kafka.AuditEvent{
		EventType:  fmt.Sprintf("%s.%s", entry.Collection, entry.Action),
		Collection: entry.Collection,
		EntityID:   entry.EntityID,
		Actor:      entry.Actor,
		Detail:     entry.Detail,
	}
	if err := a.publisher.PublishAuditEvent(ctx, event); err != nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": event.EventType,
			"entity_id":  entry.EntityID,
		}).Warn("failed to publish audit event")
	}
}
