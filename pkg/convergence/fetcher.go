// Package convergence decides, per call, which store serves a collection and
// how to recover when the preferred one fails.
package convergence

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Mode selects the store strategy for a fetch.
type Mode int

const (
	// ReadPreferred tries the directory first and silently falls back to
	// the register on failure or an invalid result shape.
	ReadPreferred Mode = iota
	// WriteRequired always reads the register; the directory never serves
	// an operation that will need a row handle.
	WriteRequired
)

const (
	sourceDirectory = "directory"
	sourceRegister  = "register"
)

// Fetcher is the convergence point between the register and the directory.
type Fetcher struct {
	reader    stores.Reader
	federated stores.FederatedReader
	cache     *cache.Collections
	logger    ectologger.Logger
}

func NewFetcher(reader stores.Reader, federated stores.FederatedReader, collections *cache.Collections, logger ectologger.Logger) *Fetcher {
	return &Fetcher{
		reader:    reader,
		federated: federated,
		cache:     collections,
		logger:    logger,
	}
}

// Fetch returns the raw records of a collection. Fallback is silent to the
// caller: only total failure of the register propagates.
func (f *Fetcher) Fetch(ctx context.Context, collection models.Collection, mode Mode) ([]stores.RawRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "convergence.Fetcher.Fetch")
	defer span.End()

	if mode == WriteRequired {
		return f.fetchRegister(ctx, collection)
	}

	if rows, ok := f.cache.Get(collection, sourceDirectory); ok {
		return rows, nil
	}

	rows, err := f.federated.FindAll(ctx, collection)
	if err != nil || rows == nil {
		// Recovered locally; the caller never sees this failure.
		unavailable := faults.NewSourceUnavailable(sourceDirectory, err)
		f.logger.WithContext(ctx).WithError(unavailable).WithFields(map[string]any{
			"collection": collection.String(),
		}).Warn("directory fetch failed, falling back to register")
		return f.fetchRegister(ctx, collection)
	}

	f.cache.Put(collection, sourceDirectory, rows)
	return rows, nil
}

func (f *Fetcher) fetchRegister(ctx context.Context, collection models.Collection) ([]stores.RawRecord, error) {
	if rows, ok := f.cache.Get(collection, sourceRegister); ok {
		return rows, nil
	}

	rows, err := f.reader.GetCollection(ctx, collection)
	if err != nil {
		f.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"collection": collection.String(),
		}).Error("register fetch failed")
		return nil, err
	}

	f.cache.Put(collection, sourceRegister, rows)
	return rows, nil
}

// Invalidate drops the cached variants of a collection. Writers call it
// synchronously before reporting success.
func (f *Fetcher) Invalidate(collection models.Collection) {
	f.cache.Invalidate(collection)
}
