package convergence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	rows  map[models.Collection][]stores.RawRecord
	err   error
	calls int
}

func (f *fakeReader) GetCollection(_ context.Context, c models.Collection) ([]stores.RawRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[c], nil
}

type fakeFederated struct {
	rows  map[models.Collection][]stores.RawRecord
	err   error
	calls int
}

func (f *fakeFederated) FindAll(_ context.Context, c models.Collection) ([]stores.RawRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[c], nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newFetcher(reader *fakeReader, federated *fakeFederated) *Fetcher {
	return NewFetcher(reader, federated, cache.New(time.Minute), testLogger())
}

func TestFetch_ReadPreferredUsesDirectory(t *testing.T) {
	reader := &fakeReader{}
	federated := &fakeFederated{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1", "name": "Acme"}},
	}}
	f := newFetcher(reader, federated)

	rows, err := f.Fetch(context.Background(), models.Companies, ReadPreferred)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// directory records never carry a row handle
	_, hasRow := rows[0].Row()
	assert.False(t, hasRow)
	assert.Equal(t, 0, reader.calls)
}

func TestFetch_FallsBackOnDirectoryError(t *testing.T) {
	reader := &fakeReader{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1", "_row": int64(2)}},
	}}
	federated := &fakeFederated{err: errors.New("connection refused")}
	f := newFetcher(reader, federated)

	rows, err := f.Fetch(context.Background(), models.Companies, ReadPreferred)
	require.NoError(t, err, "fallback must be silent to the caller")
	require.Len(t, rows, 1)

	row, hasRow := rows[0].Row()
	assert.True(t, hasRow)
	assert.Equal(t, int64(2), row)
}

func TestFetch_FallsBackOnNilResult(t *testing.T) {
	reader := &fakeReader{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1", "_row": int64(1)}},
	}}
	federated := &fakeFederated{rows: map[models.Collection][]stores.RawRecord{}} // nil for every collection
	f := newFetcher(reader, federated)

	rows, err := f.Fetch(context.Background(), models.Companies, ReadPreferred)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, reader.calls)
}

func TestFetch_WriteRequiredNeverConsultsDirectory(t *testing.T) {
	reader := &fakeReader{rows: map[models.Collection][]stores.RawRecord{
		models.Opportunities: {{"id": "o1", "_row": int64(5)}},
	}}
	federated := &fakeFederated{rows: map[models.Collection][]stores.RawRecord{
		models.Opportunities: {{"id": "o1"}},
	}}
	f := newFetcher(reader, federated)

	rows, err := f.Fetch(context.Background(), models.Opportunities, WriteRequired)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, hasRow := rows[0].Row()
	assert.True(t, hasRow)
	assert.Equal(t, 0, federated.calls)
}

func TestFetch_RegisterFailurePropagates(t *testing.T) {
	reader := &fakeReader{err: errors.New("register down")}
	federated := &fakeFederated{err: errors.New("directory down")}
	f := newFetcher(reader, federated)

	_, err := f.Fetch(context.Background(), models.Companies, ReadPreferred)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register down")
}

func TestFetch_CachesPerSource(t *testing.T) {
	reader := &fakeReader{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1", "_row": int64(1)}},
	}}
	federated := &fakeFederated{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1"}},
	}}
	f := newFetcher(reader, federated)

	ctx := context.Background()
	_, err := f.Fetch(ctx, models.Companies, ReadPreferred)
	require.NoError(t, err)
	_, err = f.Fetch(ctx, models.Companies, ReadPreferred)
	require.NoError(t, err)
	assert.Equal(t, 1, federated.calls, "second read-preferred fetch is served from cache")

	// a write-required fetch must not be served the handle-less rows
	rows, err := f.Fetch(ctx, models.Companies, WriteRequired)
	require.NoError(t, err)
	_, hasRow := rows[0].Row()
	assert.True(t, hasRow)
	assert.Equal(t, 1, reader.calls)
}

func TestFetch_InvalidateGivesReadAfterWrite(t *testing.T) {
	reader := &fakeReader{rows: map[models.Collection][]stores.RawRecord{
		models.Companies: {{"id": "c1", "name": "Old", "_row": int64(1)}},
	}}
	federated := &fakeFederated{err: errors.New("directory down")}
	f := newFetcher(reader, federated)

	ctx := context.Background()
	rows, err := f.Fetch(ctx, models.Companies, ReadPreferred)
	require.NoError(t, err)
	assert.Equal(t, "Old", rows[0]["name"])

	// simulate a write landing in the register, then synchronous invalidation
	reader.rows[models.Companies] = []stores.RawRecord{{"id": "c1", "name": "New", "_row": int64(1)}}
	f.Invalidate(models.Companies)

	rows, err = f.Fetch(ctx, models.Companies, ReadPreferred)
	require.NoError(t, err)
	assert.Equal(t, "New", rows[0]["name"])
}
