// Package stores defines the contracts fern holds against its two backing
// stores: the register (authoritative, row-handle addressed) and the
// directory (federated, bulk read only).
package stores

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
)

// rowKey carries the register row handle inside a raw record. Records read
// from the directory never have it.
const rowKey = "_row"

// RawRecord is an unnormalized record as returned by either store.
type RawRecord map[string]any

// Row returns the register row handle, if present.
func (r RawRecord) Row() (int64, bool) {
	switch v := r[rowKey].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// SetRow attaches a register row handle.
func (r RawRecord) SetRow(row int64) {
	r[rowKey] = row
}

// Clone returns a shallow copy. Cached records are shared across callers;
// anything that attaches a field must work on a clone.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Payload returns a copy of the record without its row handle, the shape
// written back to the register.
func (r RawRecord) Payload() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if k == rowKey {
			continue
		}
		out[k] = v
	}
	return out
}

// Reader reads the register. Every record it returns carries a row handle.
// Lookup by logical id is a sequential scan over GetCollection.
type Reader interface {
	GetCollection(ctx context.Context, collection models.Collection) ([]RawRecord, error)
}

// Writer mutates the register. UpdateAt and DeleteAt address a specific row
// handle and no other.
type Writer interface {
	Create(ctx context.Context, collection models.Collection, data map[string]any, author string) (RawRecord, error)
	UpdateAt(ctx context.Context, collection models.Collection, row int64, data map[string]any, author string) error
	DeleteAt(ctx context.Context, collection models.Collection, row int64) error
}

// FederatedReader bulk-reads the directory. It fails by returning an error,
// never a sentinel value, and its records never carry a row handle.
type FederatedReader interface {
	FindAll(ctx context.Context, collection models.Collection) ([]RawRecord, error)
}
