package cache

import (
	"testing"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections_PutGet(t *testing.T) {
	c := New(time.Minute)

	rows := []stores.RawRecord{{"id": "c1"}}
	c.Put(models.Companies, "directory", rows)

	got, ok := c.Get(models.Companies, "directory")
	require.True(t, ok)
	assert.Equal(t, rows, got)

	_, ok = c.Get(models.Companies, "register")
	assert.False(t, ok)

	_, ok = c.Get(models.Contacts, "directory")
	assert.False(t, ok)
}

func TestCollections_Expiry(t *testing.T) {
	c := New(-time.Second) // everything is already expired

	c.Put(models.Companies, "directory", []stores.RawRecord{{"id": "c1"}})

	_, ok := c.Get(models.Companies, "directory")
	assert.False(t, ok)
}

func TestCollections_ExpiredEntryEvictedOnGet(t *testing.T) {
	c := New(-time.Second) // everything is already expired

	c.Put(models.Companies, "directory", []stores.RawRecord{{"id": "c1"}})
	require.Equal(t, 1, c.Stats().Size)

	_, ok := c.Get(models.Companies, "directory")
	assert.False(t, ok)

	// the dead entry does not linger until the next Put
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCollections_InvalidateClearsEverySource(t *testing.T) {
	c := New(time.Minute)

	c.Put(models.Companies, "directory", []stores.RawRecord{{"id": "c1"}})
	c.Put(models.Companies, "register", []stores.RawRecord{{"id": "c1", "_row": int64(3)}})
	c.Put(models.Contacts, "register", []stores.RawRecord{{"id": "p1"}})

	c.Invalidate(models.Companies)

	_, ok := c.Get(models.Companies, "directory")
	assert.False(t, ok)
	_, ok = c.Get(models.Companies, "register")
	assert.False(t, ok)

	// unrelated collections survive
	_, ok = c.Get(models.Contacts, "register")
	assert.True(t, ok)
}

func TestCollections_Stats(t *testing.T) {
	c := New(time.Minute)

	c.Put(models.Leads, "register", []stores.RawRecord{})
	_, _ = c.Get(models.Leads, "register")
	_, _ = c.Get(models.Leads, "directory")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
