// Package register implements the authoritative store over Postgres. Every
// collection lives in one ledger table addressed by (collection, row_num);
// row_num is the opaque row handle callers use for mutation. There is no
// lookup by logical id here: readers get the whole collection and scan.
package register

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
)

const tableName = "register_rows"

// Repository implements stores.Reader and stores.Writer.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new register repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type ledgerRow struct {
	RowNum  int64                          `db:"row_num"`
	Payload database.JSONB[map[string]any] `db:"payload"`
}

// GetCollection returns every row of a collection in row order, each record
// carrying its row handle.
func (r *Repository) GetCollection(ctx context.Context, collection models.Collection) ([]stores.RawRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "RegisterRepository.GetCollection")
	defer span.End()

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("row_num", "payload")
	sb.From(tableName)
	sb.Where(sb.Equal("collection", collection.String()))
	sb.OrderBy("row_num ASC")

	query, args := sb.Build()

	var rows []ledgerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to read register collection")
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	out := make([]stores.RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := stores.RawRecord(row.Payload.GetValue())
		if rec == nil {
			rec = stores.RawRecord{}
		}
		rec.SetRow(row.RowNum)
		out = append(out, rec)
	}

	return out, nil
}

// Create appends a record at the next row position and assigns its id and
// creation timestamp.
func (r *Repository) Create(ctx context.Context, collection models.Collection, data map[string]any, author string) (stores.RawRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "RegisterRepository.Create")
	defer span.End()

	now := time.Now().UTC()

	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	if id, _ := payload["id"].(string); id == "" {
		payload["id"] = uuid.New().String()
	}
	if created, _ := payload["created_at"].(string); created == "" {
		payload["created_at"] = now.Format(time.RFC3339)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	nextSb := sqlbuilder.NewSelectBuilder()
	nextSb.Select("COALESCE(MAX(row_num), 0) + 1")
	nextSb.From(tableName)
	nextSb.Where(nextSb.Equal("collection", collection.String()))

	query, args := nextSb.Build()

	var next int64
	if err := tx.GetContext(ctx, &next, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to allocate register row")
		return nil, fmt.Errorf("failed to allocate row for %s: %w", collection, err)
	}

	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("collection", "row_num", "payload", "author", "created_at", "updated_at")
	ib.Values(collection.String(), next, database.JSONB[map[string]any]{Data: payload}, author, now, now)

	query, args = ib.Build()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to insert register row")
		return nil, fmt.Errorf("failed to create %s record: %w", collection, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s create: %w", collection, err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"collection": collection.String(),
		"row":        next,
		"id":         payload["id"],
	}).Info("created register row")

	rec := stores.RawRecord(payload)
	rec.SetRow(next)
	return rec, nil
}

// UpdateAt replaces the payload at exactly the given row handle.
func (r *Repository) UpdateAt(ctx context.Context, collection models.Collection, row int64, data map[string]any, author string) error {
	ctx, span := tracing.StartSpan(ctx, "RegisterRepository.UpdateAt")
	defer span.End()

	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(
		ub.Assign("payload", database.JSONB[map[string]any]{Data: data}),
		ub.Assign("author", author),
		ub.Assign("updated_at", time.Now().UTC()),
	)
	ub.Where(
		ub.Equal("collection", collection.String()),
		ub.Equal("row_num", row),
	)

	query, args := ub.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update register row")
		return fmt.Errorf("failed to update %s row %d: %w", collection, row, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no %s row at handle %d", collection, row)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"collection": collection.String(),
		"row":        row,
	}).Info("updated register row")

	return nil
}

// DeleteAt removes the row at exactly the given row handle.
func (r *Repository) DeleteAt(ctx context.Context, collection models.Collection, row int64) error {
	ctx, span := tracing.StartSpan(ctx, "RegisterRepository.DeleteAt")
	defer span.End()

	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(
		db.Equal("collection", collection.String()),
		db.Equal("row_num", row),
	)

	query, args := db.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete register row")
		return fmt.Errorf("failed to delete %s row %d: %w", collection, row, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no %s row at handle %d", collection, row)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"collection": collection.String(),
		"row":        row,
	}).Info("deleted register row")

	return nil
}
