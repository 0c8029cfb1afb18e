// Package services implements fern's canonical operations. Services compose
// the convergence fetcher, the row-address resolver, and the aggregation
// engine; consumers receive canonical DTOs or the pagination envelope, never
// raw store records.
package services

import (
	"context"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reqcontext"
)

// Recorder is the audit surface services call after a successful mutation.
// Recording is best-effort: implementations never return an error.
type Recorder interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// appendOnlyFields are merged by stamped concatenation instead of overwrite.
var appendOnlyFields = []string{"notes"}

// Join sentinels: a record naming no company at all renders differently from
// one naming a company fern cannot resolve.
const (
	labelNotSpecified   = "Not specified"
	labelUnknownCompany = "Unknown company"
)

// authorFrom resolves the acting user for author stamps and audit entries.
func authorFrom(ctx context.Context) string {
	if author := reqcontext.GetUserID(ctx); author != "" {
		return author
	}
	return "system"
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
