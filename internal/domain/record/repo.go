package record

import (
	"context"
	"errors"
)

// DefaultTable is the name of the remote collection holding patient records.
const DefaultTable = "patient_records"

// ErrNotFound is returned by backends that can tell a missing row apart from
// a successful no-op.
var ErrNotFound = errors.New("record not found")

// Collection is the remote table the dashboard reads and writes. ListAll
// returns the whole collection, unfiltered, in whatever order the backend
// produces.
type Collection interface {
	ListAll(ctx context.Context) ([]Record, error)
	Insert(ctx context.Context, d Draft) error
	Update(ctx context.Context, id ID, d Draft) error
	Delete(ctx context.Context, id ID) error
}
