// Package liststore talks to the remote JSON document that holds the waitlist.
//
// The document is treated as one mutable array of records: reads fetch the
// latest snapshot and writes replace the whole array. There is no partial
// update and no version check, so concurrent writers race and the last one wins.
package liststore

import (
	"context"

	"github.com/grahmind/careers-waitlist/internal/models"
)

// ListStore reads and replaces the remote waitlist document.
type ListStore interface {
	// Read returns the latest snapshot. A non-success response from the store is
	// reported as an empty snapshot of shape ShapeNone, not as an error.
	Read(ctx context.Context) (Snapshot, error)
	// Write replaces the remote document with records. It does not retry.
	Write(ctx context.Context, records []models.WaitlistRecord) error
}

// Shape tells which representation the remote document was decoded from.
type Shape int

const (
	// ShapeNone means no document was available (store unreachable status, missing credentials).
	ShapeNone Shape = iota
	// ShapeArray is a plain JSON array of records.
	ShapeArray
	// ShapeWrapped is an object carrying the records under "emails".
	ShapeWrapped
	// ShapeUnknown is any other payload; it decodes to no records.
	ShapeUnknown
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	case ShapeUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// Snapshot is one decoded read of the remote document.
type Snapshot struct {
	Shape   Shape
	Records []models.WaitlistRecord
}

// Len is the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Records)
}
