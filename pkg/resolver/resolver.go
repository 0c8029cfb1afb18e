// Package resolver locates register row handles for logical ids and applies
// the read-modify-write merge policy ahead of positional updates.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/convergence"
	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Resolver scans the register for a logical id prior to any mutation. The
// register only supports sequential scan, so Locate fetches the whole
// collection in WriteRequired mode and walks it.
type Resolver struct {
	fetcher *convergence.Fetcher
	logger  ectologger.Logger
}

func New(fetcher *convergence.Fetcher, logger ectologger.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Locate finds the register record carrying the logical id and returns it
// with its row handle. A missing id is a NotFoundError. A matched record
// without a row handle is an IntegrityError: that means the upstream data is
// corrupt, and the operation must never be retried.
func (r *Resolver) Locate(ctx context.Context, collection models.Collection, id string) (stores.RawRecord, int64, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Resolver.Locate")
	defer span.End()

	rows, err := r.fetcher.Fetch(ctx, collection, convergence.WriteRequired)
	if err != nil {
		return nil, 0, err
	}

	for _, rec := range rows {
		recID, _ := rec["id"].(string)
		if recID != id {
			continue
		}

		row, ok := rec.Row()
		if !ok {
			r.logger.WithContext(ctx).WithFields(map[string]any{
				"collection": collection.String(),
				"id":         id,
			}).Error("matched record has no row handle")
			return nil, 0, faults.NewIntegrity(collection.String(), id, "matched record has no row handle")
		}

		return rec, row, nil
	}

	return nil, 0, faults.NewNotFound(collection.String(), id)
}

// MergePatch applies the partial-update merge policy: caller-supplied fields
// shallowly overwrite the existing record, except append-only fields, where
// the new content is stamped and concatenated after the old content.
// Existing content is never discarded.
func MergePatch(existing stores.RawRecord, patch map[string]any, appendOnly []string, author string, now time.Time) map[string]any {
	appendSet := make(map[string]bool, len(appendOnly))
	for _, f := range appendOnly {
		appendSet[f] = true
	}

	merged := existing.Payload()

	for k, v := range patch {
		if !appendSet[k] {
			merged[k] = v
			continue
		}

		addition, _ := v.(string)
		if addition == "" {
			continue
		}

		previous, _ := existing[k].(string)
		merged[k] = AppendStamped(previous, addition, author, now)
	}

	return merged
}

// AppendStamped concatenates new append-only content after the old with a
// generated [author, date] prefix.
func AppendStamped(previous, addition, author string, now time.Time) string {
	if author == "" {
		author = "unknown"
	}
	stamped := fmt.Sprintf("[%s, %s] %s", author, now.Format("2006-01-02"), addition)
	if strings.TrimSpace(previous) == "" {
		return stamped
	}
	return previous + "\n" + stamped
}
