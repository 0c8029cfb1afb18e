// Package directory implements the federated reader over the Memgraph
// directory. It serves bulk reads only, never exposes a row handle, and
// fails by returning an error.
package directory

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var labels = map[models.Collection]string{
	models.Companies:     "Company",
	models.Contacts:      "Contact",
	models.Leads:         "Lead",
	models.Opportunities: "Opportunity",
	models.Interactions:  "Interaction",
	models.EventLogs:     "EventLog",
	models.Links:         "ContactLink",
}

// Repository implements stores.FederatedReader.
type Repository struct {
	client *graph.Client
	logger ectologger.Logger
}

// NewRepository creates a new directory repository
func NewRepository(client *graph.Client, logger ectologger.Logger) *Repository {
	return &Repository{
		client: client,
		logger: logger,
	}
}

// FindAll bulk-reads every node of a collection's label. Rows pass through
// unvalidated; shape decisions belong to the convergence layer.
func (r *Repository) FindAll(ctx context.Context, collection models.Collection) ([]stores.RawRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DirectoryRepository.FindAll")
	defer span.End()

	label, ok := labels[collection]
	if !ok {
		return nil, fmt.Errorf("no directory label for collection %s", collection)
	}

	cypher := fmt.Sprintf("MATCH (n:%s) RETURN properties(n) AS props", label)

	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, nil)
		if err != nil {
			return nil, err
		}

		rows := make([]stores.RawRecord, 0)
		for res.Next(ctx) {
			v, ok := res.Record().Get("props")
			if !ok {
				continue
			}
			props, ok := v.(map[string]any)
			if !ok {
				continue
			}
			rows = append(rows, stores.RawRecord(props))
		}
		return rows, res.Err()
	})
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"collection": collection.String(),
		}).Warn("directory read failed")
		return nil, err
	}

	rows, _ := result.([]stores.RawRecord)
	return rows, nil
}
