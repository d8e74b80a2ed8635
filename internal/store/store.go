// Package store persists named collections of records at whole-collection
// granularity. Callers read the entire collection, compute a new sequence,
// and write the entire collection back; there are no partial-record writes.
package store

import (
	"context"
	"errors"
)

var (
	// ErrWriteFailed wraps save failures. A failed save commits nothing;
	// the previous collection contents remain intact.
	ErrWriteFailed = errors.New("store write failed")
)

// DocumentStore is the persistence contract shared by the catalog and the
// review collection.
//
// Load never fails on a missing or unreadable medium: it degrades to an
// empty collection so the service can start against a fresh deployment.
// Save replaces the whole collection and surfaces failures to the caller.
// Update runs a read-modify-write cycle under the store's write
// serialization, so two concurrent mutations cannot clobber each other
// within this process.
type DocumentStore[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
	Update(ctx context.Context, mutate func(records []T) ([]T, error)) ([]T, error)
}
